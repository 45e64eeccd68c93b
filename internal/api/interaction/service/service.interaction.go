// Package interactionsvc - Service interaction + matcher chọn tương tác đủ điều kiện đánh giá.
package interactionsvc

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	basesvc "qa_center/internal/api/base/service"
	interactionmodels "qa_center/internal/api/interaction/models"
	schedmodels "qa_center/internal/api/schedule/models"
	"qa_center/internal/common"
	"qa_center/internal/global"
)

// defaultMatchWindow khoảng thời gian mặc định khi profile không khai báo dateWindow.
const defaultMatchWindow = 24 * time.Hour

// MatchOptions tùy chọn khi chạy matcher.
type MatchOptions struct {
	ExcludeEvaluated bool  // Loại interaction đã đánh giá (idempotency guard)
	Limit            int64 // Giới hạn số kết quả, <= 0 = không giới hạn
}

// InteractionService xử lý CRUD interaction và matcher theo SelectionProfile.
type InteractionService struct {
	*basesvc.BaseServiceMongoImpl[interactionmodels.Interaction]
}

// NewInteractionService tạo InteractionService mới.
func NewInteractionService() (*InteractionService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Interactions)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Interactions, common.ErrNotFound)
	}
	return &InteractionService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[interactionmodels.Interaction](coll),
	}, nil
}

// agentIDVariants sinh cả dạng string lẫn số cho mỗi agent id vì nguồn dữ liệu
// tổng đài không nhất quán về kiểu.
func agentIDVariants(agents []string) []interface{} {
	variants := make([]interface{}, 0, len(agents)*2)
	for _, a := range agents {
		if a == "" {
			continue
		}
		variants = append(variants, a)
		if n, err := strconv.Atoi(a); err == nil {
			variants = append(variants, n)
		}
	}
	return variants
}

// BuildMatchFilter dịch SelectionProfile thành một bson filter duy nhất:
// direction, agent set, queue id-hoặc-name set, work code set, duration tối thiểu,
// channel set, khoảng thời gian (mặc định 24h gần nhất), điều kiện tồn tại nội dung
// (voice cần recordingPath, text cần >= 1 message) và loại interaction đã đánh giá.
func BuildMatchFilter(profile *schedmodels.SelectionProfile, opts MatchOptions, now time.Time) bson.M {
	filter := bson.M{}

	if profile.Direction != "" {
		filter["direction"] = profile.Direction
	}

	if len(profile.Agents) > 0 {
		filter["agentId"] = bson.M{"$in": agentIDVariants(profile.Agents)}
	}

	if len(profile.WorkCodes) > 0 {
		filter["workCodes"] = bson.M{"$in": profile.WorkCodes}
	}

	if profile.MinCallDuration > 0 {
		filter["duration"] = bson.M{"$gte": profile.MinCallDuration}
	}

	if len(profile.Channels) > 0 {
		filter["channel"] = bson.M{"$in": profile.Channels}
	}

	// Khoảng thời gian: profile không khai báo → mặc định 24h gần nhất
	window := profile.DateWindow
	if window.IsZero() {
		window.From = now.Add(-defaultMatchWindow).UnixMilli()
	}
	startedAt := bson.M{}
	if window.From > 0 {
		startedAt["$gte"] = window.From
	}
	if window.To > 0 {
		startedAt["$lte"] = window.To
	}
	if len(startedAt) > 0 {
		filter["startedAt"] = startedAt
	}

	andClauses := []bson.M{}

	// Queue khớp theo id hoặc theo tên (dữ liệu nguồn lúc có id lúc chỉ có tên)
	if len(profile.Queues) > 0 {
		andClauses = append(andClauses, bson.M{"$or": []bson.M{
			{"queueId": bson.M{"$in": profile.Queues}},
			{"queueName": bson.M{"$in": profile.Queues}},
		}})
	}

	// Điều kiện tồn tại nội dung: loại khỏi kết quả, không chỉ đánh dấu
	andClauses = append(andClauses, bson.M{"$or": []bson.M{
		{
			"channel":      bson.M{"$in": interactionmodels.TextChannels},
			"messageCount": bson.M{"$gte": 1},
		},
		{
			"channel":       bson.M{"$nin": interactionmodels.TextChannels},
			"recordingPath": bson.M{"$exists": true, "$nin": []interface{}{nil, ""}},
		},
	}})

	if opts.ExcludeEvaluated {
		filter["isEvaluated"] = bson.M{"$ne": true}
	}

	if len(andClauses) > 0 {
		filter["$and"] = andClauses
	}

	return filter
}

// Match trả về các interaction đủ điều kiện theo profile, mới nhất trước.
func (s *InteractionService) Match(ctx context.Context, profile *schedmodels.SelectionProfile, opts MatchOptions) ([]interactionmodels.Interaction, error) {
	filter := BuildMatchFilter(profile, opts, time.Now())

	findOpts := mongoopts.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	return s.Find(ctx, filter, findOpts)
}

// MarkEvaluated đánh dấu interaction đã được đánh giá sau khi job chấm điểm thành công.
func (s *InteractionService) MarkEvaluated(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{
		"isEvaluated": true,
		"updatedAt":   time.Now().UnixMilli(),
	}}
	_, err := s.UpdateById(ctx, id, update)
	return err
}
