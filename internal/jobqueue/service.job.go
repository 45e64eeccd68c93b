package jobqueue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	basesvc "qa_center/internal/api/base/service"
	"qa_center/internal/common"
	"qa_center/internal/global"
	"qa_center/internal/logger"
)

// JobService quản lý vòng đời job trong qa_evaluation_jobs.
type JobService struct {
	*basesvc.BaseServiceMongoImpl[JobRecord]
}

// NewJobService tạo JobService mới.
func NewJobService() (*JobService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.EvaluationJobs)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.EvaluationJobs, common.ErrNotFound)
	}
	return &JobService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[JobRecord](coll),
	}, nil
}

// Submit đưa một job vào hàng đợi ở trạng thái waiting.
// Unique partial index trên interactionId (waiting|active) từ chối job trùng
// cho cùng tương tác — trả về lỗi 409 JOB_001 thay vì tạo job thứ hai.
func (s *JobService) Submit(ctx context.Context, job JobRecord) (JobRecord, error) {
	job.Status = JobStatusWaiting
	job.Attempts = 0
	if job.MaxAttempts <= 0 {
		job.MaxAttempts = 3
	}
	if job.Priority == 0 {
		job.Priority = PriorityForChannel(job.Channel)
	}

	created, err := s.InsertOne(ctx, job)
	if err != nil {
		return JobRecord{}, submitError(job.InteractionID, err)
	}
	return created, nil
}

// submitError dịch lỗi insert sang lỗi nghiệp vụ của hàng đợi: key trùng
// (unique partial index) thành 409 JOB_001, lỗi khác giữ nguyên.
func submitError(interactionID primitive.ObjectID, err error) error {
	if errors.Is(err, common.ErrMongoDuplicate) || errors.Is(err, common.ErrDuplicate) {
		return common.NewError(
			common.ErrCodeJobQueue,
			fmt.Sprintf("Tương tác %s đã có job chấm điểm đang chờ hoặc đang chạy", interactionID.Hex()),
			common.StatusConflict,
			nil,
		)
	}
	return err
}

// ClaimNext nhận atomically job waiting có ưu tiên cao nhất đã đến hạn
// (nextRetryAt <= now hoặc chưa đặt), chuyển sang active và tăng attempts.
// Trả về common.ErrNotFound khi hàng đợi trống.
func (s *JobService) ClaimNext(ctx context.Context, now time.Time) (JobRecord, error) {
	filter := bson.M{
		"status": JobStatusWaiting,
		"$or": []bson.M{
			{"nextRetryAt": bson.M{"$exists": false}},
			{"nextRetryAt": bson.M{"$lte": now.UnixMilli()}},
		},
	}
	update := bson.M{
		"$set": bson.M{"status": JobStatusActive, "updatedAt": now.UnixMilli()},
		"$inc": bson.M{"attempts": 1},
	}
	opts := mongoopts.FindOneAndUpdate().
		SetSort(bson.D{{Key: "priority", Value: -1}, {Key: "createdAt", Value: 1}}).
		SetReturnDocument(mongoopts.After)

	// Dùng collection trực tiếp: ToUpdateData của base service không hỗ trợ $inc
	var claimed JobRecord
	err := s.Collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&claimed)
	if err != nil {
		return JobRecord{}, common.ConvertMongoError(err)
	}
	return claimed, nil
}

// MarkCompleted kết thúc job thành công. Job completed được giữ lại một thời
// gian theo cấu hình retention rồi mới bị prune.
func (s *JobService) MarkCompleted(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.UpdateById(ctx, id, bson.M{"$set": bson.M{
		"status":      JobStatusCompleted,
		"completedAt": time.Now().UnixMilli(),
	}})
	return err
}

// failureUpdate quyết định trạng thái kế tiếp sau một lần chấm thất bại:
// hết lượt thử thì failed (giữ lại, không prune), còn lượt thì về waiting
// với nextRetryAt theo backoff nhân đôi. Tách thuần để test được.
func failureUpdate(job JobRecord, cause error, backoffBase time.Duration, now time.Time) bson.M {
	if job.Attempts >= job.MaxAttempts {
		return bson.M{
			"status": JobStatusFailed,
			"error":  cause.Error(),
		}
	}
	return bson.M{
		"status":      JobStatusWaiting,
		"error":       cause.Error(),
		"nextRetryAt": now.Add(BackoffDelay(job.Attempts, backoffBase)).UnixMilli(),
	}
}

// MarkFailed ghi nhận một lần chấm thất bại theo failureUpdate.
func (s *JobService) MarkFailed(ctx context.Context, job JobRecord, cause error, backoffBase time.Duration) error {
	update := failureUpdate(job, cause, backoffBase, time.Now())
	if _, err := s.UpdateById(ctx, job.ID, bson.M{"$set": update}); err != nil {
		return err
	}

	log := logger.GetAppLogger()
	fields := map[string]interface{}{
		"jobId":         job.ID.Hex(),
		"interactionId": job.InteractionID.Hex(),
		"attempts":      job.Attempts,
		"maxAttempts":   job.MaxAttempts,
		"error":         cause.Error(),
	}
	if update["status"] == JobStatusFailed {
		log.WithFields(fields).Error("⚙️ [JOBQUEUE] Job hết lượt thử, chuyển sang failed")
		return nil
	}
	fields["nextRetryAt"] = update["nextRetryAt"]
	log.WithFields(fields).Warn("⚙️ [JOBQUEUE] Job thất bại, sẽ thử lại")
	return nil
}

// PruneCompleted xóa các job completed đã quá thời gian giữ lại.
// Job failed KHÔNG bị prune, giữ làm dấu vết debug.
func (s *JobService) PruneCompleted(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UnixMilli()
	return s.DeleteMany(ctx, bson.M{
		"status":      JobStatusCompleted,
		"completedAt": bson.M{"$lt": cutoff},
	})
}

// BackoffDelay tính thời gian chờ trước lần thử tiếp theo: base nhân đôi
// sau mỗi lần thất bại (5s, 10s, 20s... với base 5s).
func BackoffDelay(attempts int, base time.Duration) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	delay := base
	for i := 1; i < attempts; i++ {
		delay *= 2
	}
	return delay
}
