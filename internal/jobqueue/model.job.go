// Package jobqueue - Hàng đợi job chấm điểm (qa_evaluation_jobs).
// Job được scheduler đưa vào, dispatcher lấy ra theo ưu tiên và chấm bằng
// Scorer dưới giới hạn tốc độ token bucket.
package jobqueue

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	interactionmodels "qa_center/internal/api/interaction/models"
)

// Trạng thái job trong hàng đợi.
const (
	JobStatusWaiting   = "waiting"   // Chờ được dispatcher nhận
	JobStatusActive    = "active"    // Đang được chấm
	JobStatusCompleted = "completed" // Chấm xong, đánh giá đã lưu
	JobStatusFailed    = "failed"    // Hết số lần thử, giữ lại để debug
)

// Ưu tiên xử lý: kênh text rẻ hơn nên được chấm trước kênh voice.
const (
	PriorityVoice = 0
	PriorityText  = 10
)

// PriorityForChannel trả về ưu tiên của job theo kênh tương tác.
func PriorityForChannel(channel string) int {
	if interactionmodels.IsTextChannel(channel) {
		return PriorityText
	}
	return PriorityVoice
}

// JobRecord một job chấm điểm trong qa_evaluation_jobs.
// interactionId nằm ở cấp cao nhất vì unique partial index
// (status ∈ waiting|active) chặn job trùng cho cùng một tương tác.
type JobRecord struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	InteractionID     primitive.ObjectID `json:"interactionId" bson:"interactionId"`
	RubricID          primitive.ObjectID `json:"rubricId" bson:"rubricId"`
	AgentID           string             `json:"agentId" bson:"agentId"`
	AgentName         string             `json:"agentName,omitempty" bson:"agentName,omitempty"`
	EvaluatorIdentity string             `json:"evaluatorIdentity,omitempty" bson:"evaluatorIdentity,omitempty"`
	Channel           string             `json:"channel" bson:"channel"`

	Priority    int    `json:"priority" bson:"priority"`
	Status      string `json:"status" bson:"status"`
	Attempts    int    `json:"attempts" bson:"attempts"`
	MaxAttempts int    `json:"maxAttempts" bson:"maxAttempts"`
	Error       string `json:"error,omitempty" bson:"error,omitempty"`
	NextRetryAt int64  `json:"nextRetryAt,omitempty" bson:"nextRetryAt,omitempty"`
	CompletedAt int64  `json:"completedAt,omitempty" bson:"completedAt,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
