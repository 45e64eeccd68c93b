// Package schedsvc - Service SelectionProfile + SchedulerHistory.
package schedsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "qa_center/internal/api/base/service"
	schedmodels "qa_center/internal/api/schedule/models"
	"qa_center/internal/common"
	"qa_center/internal/global"
)

// SelectionProfileService xử lý CRUD profile chọn interaction (qa_selection_profiles).
type SelectionProfileService struct {
	*basesvc.BaseServiceMongoImpl[schedmodels.SelectionProfile]
}

// NewSelectionProfileService tạo SelectionProfileService mới.
func NewSelectionProfileService() (*SelectionProfileService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.SelectionProfiles)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.SelectionProfiles, common.ErrNotFound)
	}
	return &SelectionProfileService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[schedmodels.SelectionProfile](coll),
	}, nil
}

// UpdateScheduleConfig thay cấu hình lịch nhúng của profile, trả về profile đã cập nhật.
func (s *SelectionProfileService) UpdateScheduleConfig(ctx context.Context, profileID primitive.ObjectID, cfg schedmodels.ScheduleConfig) (*schedmodels.SelectionProfile, error) {
	updated, err := s.UpdateById(ctx, profileID, bson.M{"$set": bson.M{"schedule": cfg}})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// FindEnabledProfiles trả về các profile có lịch định kỳ bật — dùng khi khởi động
// scheduler để cài lại toàn bộ cron entry.
func (s *SelectionProfileService) FindEnabledProfiles(ctx context.Context) ([]schedmodels.SelectionProfile, error) {
	return s.Find(ctx, bson.M{
		"schedule.enabled":        true,
		"schedule.cronExpression": bson.M{"$nin": []interface{}{nil, ""}},
	}, nil)
}
