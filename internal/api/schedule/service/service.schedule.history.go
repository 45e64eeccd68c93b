package schedsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	basesvc "qa_center/internal/api/base/service"
	schedmodels "qa_center/internal/api/schedule/models"
	"qa_center/internal/common"
	"qa_center/internal/global"
)

// SchedulerHistoryService xử lý dòng audit append-only của scheduler (qa_scheduler_history).
type SchedulerHistoryService struct {
	*basesvc.BaseServiceMongoImpl[schedmodels.SchedulerHistoryEntry]
}

// NewSchedulerHistoryService tạo SchedulerHistoryService mới.
func NewSchedulerHistoryService() (*SchedulerHistoryService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.SchedulerHistory)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.SchedulerHistory, common.ErrNotFound)
	}
	return &SchedulerHistoryService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[schedmodels.SchedulerHistoryEntry](coll),
	}, nil
}

// Append ghi một dòng lịch sử. Lịch sử chỉ thêm, không bao giờ sửa.
func (s *SchedulerHistoryService) Append(ctx context.Context, entry schedmodels.SchedulerHistoryEntry) (schedmodels.SchedulerHistoryEntry, error) {
	return s.InsertOne(ctx, entry)
}

// FindByProfile trả về lịch sử chạy của một profile, mới nhất trước.
func (s *SchedulerHistoryService) FindByProfile(ctx context.Context, profileID primitive.ObjectID, limit int64) ([]schedmodels.SchedulerHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := mongoopts.Find().
		SetSort(bson.D{{Key: "startTime", Value: -1}}).
		SetLimit(limit)
	return s.Find(ctx, bson.M{"profileId": profileID}, opts)
}
