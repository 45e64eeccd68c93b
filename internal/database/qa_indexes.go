// Package database - Index bổ sung cho hệ thống QA (compound, partial) không thể định nghĩa qua model tags.
package database

import (
	"context"
	"strings"

	"qa_center/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateQaAdditionalIndexes tạo các index bổ sung cho hệ thống QA.
// Gọi sau khi các collections đã được đăng ký vào registry.
func CreateQaAdditionalIndexes(ctx context.Context, db *mongo.Database) error {
	// qa_interactions: (channel, startedAt) — matcher quét theo kênh và khoảng thời gian
	interactions := db.Collection(global.MongoDB_ColNames.Interactions)
	if _, err := interactions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "channel", Value: 1},
			{Key: "startedAt", Value: -1},
		},
		Options: options.Index().SetName("qa_interaction_channel_time"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// qa_interactions: (agentId, startedAt) — matcher lọc theo nhân viên
	if _, err := interactions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "agentId", Value: 1},
			{Key: "startedAt", Value: -1},
		},
		Options: options.Index().SetName("qa_interaction_agent_time"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// qa_evaluations: (interactionId) — tra cứu đánh giá theo tương tác
	evaluations := db.Collection(global.MongoDB_ColNames.Evaluations)
	if _, err := evaluations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "interactionId", Value: 1},
		},
		Options: options.Index().SetName("qa_evaluation_interaction"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// qa_evaluations: (agentId, status) — agent chỉ xem được đánh giá published của mình
	if _, err := evaluations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "agentId", Value: 1},
			{Key: "status", Value: 1},
		},
		Options: options.Index().SetName("qa_evaluation_agent_status"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// qa_evaluation_jobs: (status, priority, nextRetryAt) — dequeue của dispatcher
	jobs := db.Collection(global.MongoDB_ColNames.EvaluationJobs)
	if _, err := jobs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "priority", Value: -1},
			{Key: "nextRetryAt", Value: 1},
		},
		Options: options.Index().SetName("qa_job_dequeue"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// qa_evaluation_jobs: unique partial (interactionId) khi status waiting/active
	// — chặn việc đưa cùng một tương tác vào hàng đợi hai lần
	if _, err := jobs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "interactionId", Value: 1},
		},
		Options: options.Index().
			SetName("qa_job_interaction_active").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"status": bson.M{"$in": []string{"waiting", "active"}},
			}),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// qa_scheduler_history: (profileId, startTime desc) — truy vấn lịch sử mới nhất
	history := db.Collection(global.MongoDB_ColNames.SchedulerHistory)
	if _, err := history.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "profileId", Value: 1},
			{Key: "startTime", Value: -1},
		},
		Options: options.Index().SetName("qa_history_profile_time"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
