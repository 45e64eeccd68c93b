package jobqueue

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/time/rate"

	"qa_center/internal/common"
)

func TestBackoffDelay_Doubles(t *testing.T) {
	base := 5 * time.Second

	assert.Equal(t, 5*time.Second, BackoffDelay(1, base))
	assert.Equal(t, 10*time.Second, BackoffDelay(2, base))
	assert.Equal(t, 20*time.Second, BackoffDelay(3, base))
}

func TestBackoffDelay_AttemptsBelowOne(t *testing.T) {
	assert.Equal(t, 5*time.Second, BackoffDelay(0, 5*time.Second))
}

func TestPriorityForChannel(t *testing.T) {
	// Kênh text được ưu tiên trước kênh voice
	assert.Equal(t, PriorityText, PriorityForChannel("chat"))
	assert.Equal(t, PriorityText, PriorityForChannel("email"))
	assert.Equal(t, PriorityVoice, PriorityForChannel("voice"))
	assert.Equal(t, PriorityVoice, PriorityForChannel("callback"))
	assert.Greater(t, PriorityForChannel("chat"), PriorityForChannel("call"))
}

func TestNewScoringLimiter_TokenBucket(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	limiter := newScoringLimiter(2, 5*time.Second)

	// Burst = max job trong một window, tốc độ nạp lại = max/window
	assert.Equal(t, 2, limiter.Burst())
	assert.Equal(t, rate.Limit(0.4), limiter.Limit())

	// Bucket đầy: lấy được đủ burst, token thứ ba bị từ chối
	assert.True(t, limiter.AllowN(now, 2))
	assert.False(t, limiter.AllowN(now, 1))

	// Chưa nạp lại đủ một token (0.4 token/s → cần 2.5s)
	assert.False(t, limiter.AllowN(now.Add(2*time.Second), 1))
	assert.True(t, limiter.AllowN(now.Add(2500*time.Millisecond), 1))
}

func TestNewScoringLimiter_ClampsInvalidParams(t *testing.T) {
	limiter := newScoringLimiter(0, 0)

	assert.Equal(t, 1, limiter.Burst())
	assert.Equal(t, rate.Limit(1), limiter.Limit())
}

func TestFailureUpdate_RequeuesWithBackoff(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	job := JobRecord{
		ID:          primitive.NewObjectID(),
		Attempts:    1,
		MaxAttempts: 3,
	}

	update := failureUpdate(job, errors.New("timeout khi gọi API"), 5*time.Second, now)

	assert.Equal(t, JobStatusWaiting, update["status"])
	assert.Equal(t, "timeout khi gọi API", update["error"])
	assert.Equal(t, now.Add(5*time.Second).UnixMilli(), update["nextRetryAt"])
}

func TestFailureUpdate_SecondFailureDoublesBackoff(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	job := JobRecord{Attempts: 2, MaxAttempts: 3}

	update := failureUpdate(job, errors.New("timeout"), 5*time.Second, now)

	assert.Equal(t, JobStatusWaiting, update["status"])
	assert.Equal(t, now.Add(10*time.Second).UnixMilli(), update["nextRetryAt"])
}

func TestFailureUpdate_ExhaustedAttemptsMarksFailed(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	job := JobRecord{Attempts: 3, MaxAttempts: 3}

	update := failureUpdate(job, errors.New("timeout lần cuối"), 5*time.Second, now)

	// Hết lượt: chuyển failed, giữ lỗi cuối làm dấu vết debug, không đặt retry
	assert.Equal(t, JobStatusFailed, update["status"])
	assert.Equal(t, "timeout lần cuối", update["error"])
	assert.NotContains(t, update, "nextRetryAt")
}

func TestSubmitError_DuplicateBecomesConflict(t *testing.T) {
	interactionID := primitive.NewObjectID()

	for _, cause := range []error{common.ErrMongoDuplicate, common.ErrDuplicate} {
		err := submitError(interactionID, cause)

		var appErr *common.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, common.ErrCodeJobQueue, appErr.Code)
		assert.Equal(t, common.StatusConflict, appErr.StatusCode)
		assert.Contains(t, appErr.Message, interactionID.Hex())
	}
}

func TestSubmitError_OtherErrorsPassThrough(t *testing.T) {
	cause := errors.New("mất kết nối mongo")

	err := submitError(primitive.NewObjectID(), cause)

	assert.Equal(t, cause, err)
}
