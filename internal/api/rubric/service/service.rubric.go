// Package rubricsvc - Service đọc/ghi rubric (qa_rubrics).
package rubricsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "qa_center/internal/api/base/service"
	rubricmodels "qa_center/internal/api/rubric/models"
	"qa_center/internal/common"
	"qa_center/internal/global"
)

// RubricService xử lý CRUD rubric, kèm validate tính nhất quán của định nghĩa.
type RubricService struct {
	*basesvc.BaseServiceMongoImpl[rubricmodels.Rubric]
}

// NewRubricService tạo RubricService mới.
func NewRubricService() (*RubricService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Rubrics)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Rubrics, common.ErrNotFound)
	}
	return &RubricService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[rubricmodels.Rubric](coll),
	}, nil
}

// CreateRubric validate định nghĩa rồi insert.
func (s *RubricService) CreateRubric(ctx context.Context, rubric rubricmodels.Rubric) (rubricmodels.Rubric, error) {
	if err := rubric.ValidateDefinition(); err != nil {
		return rubricmodels.Rubric{}, err
	}
	return s.InsertOne(ctx, rubric)
}

// GetRubric trả về rubric theo id. Trả về common.ErrNotFound nếu không có.
func (s *RubricService) GetRubric(ctx context.Context, id primitive.ObjectID) (*rubricmodels.Rubric, error) {
	rubric, err := s.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}
	return &rubric, nil
}
