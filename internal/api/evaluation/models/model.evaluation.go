// Package models - Evaluation thuộc domain đánh giá chất lượng (qa_evaluations).
// Một document gồm ba phần: kết quả AI bất biến, overlay của người kiểm duyệt
// và snapshot điểm dẫn xuất — luôn được ghi cùng nhau trong một lần update.
package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"qa_center/internal/common"
	"qa_center/internal/scoring"
)

// Trạng thái vòng đời đánh giá, dẫn xuất từ overlay:
// pending → completed → moderated → published
const (
	StatusPending   = "pending"   // Job đã nhận, chưa có kết quả AI
	StatusCompleted = "completed" // Có kết quả AI, chưa kiểm duyệt
	StatusModerated = "moderated" // Có overlay, chưa công bố
	StatusPublished = "published" // Đã công bố cho agent
)

// EvaluationParameter kết quả AI cho một tham số rubric. Bất biến sau khi job ghi.
type EvaluationParameter struct {
	Name        string  `json:"name" bson:"name"`
	Score       float64 `json:"score" bson:"score"` // -1 = không áp dụng
	Explanation string  `json:"explanation,omitempty" bson:"explanation,omitempty"`
	Confidence  float64 `json:"confidence,omitempty" bson:"confidence,omitempty"`
}

// ParameterOverride chỉnh sửa của người kiểm duyệt cho một tham số.
// Tag validate có hiệu lực qua `dive` khi nhúng trong ModerateInput.
type ParameterOverride struct {
	Name                   string   `json:"name" bson:"name" validate:"required"`
	HumanScore             *float64 `json:"humanScore,omitempty" bson:"humanScore,omitempty"`
	HumanExplanation       string   `json:"humanExplanation,omitempty" bson:"humanExplanation,omitempty" validate:"omitempty,no_xss"`
	ClassificationOverride string   `json:"classificationOverride,omitempty" bson:"classificationOverride,omitempty" validate:"omitempty,severity"`
}

// AgentComment phản hồi của agent sau khi đánh giá được công bố.
type AgentComment struct {
	AgentID   string `json:"agentId" bson:"agentId"`
	Comment   string `json:"comment" bson:"comment"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"`
}

// HumanOverlay phần dữ liệu chỉ do con người tạo/cập nhật.
type HumanOverlay struct {
	ParameterOverrides []ParameterOverride `json:"parameterOverrides,omitempty" bson:"parameterOverrides,omitempty"`
	AdditionalComments string              `json:"additionalComments,omitempty" bson:"additionalComments,omitempty"`
	AgentComments      []AgentComment      `json:"agentComments,omitempty" bson:"agentComments,omitempty"`
	IsModerated        bool                `json:"isModerated" bson:"isModerated"`
	IsPublished        bool                `json:"isPublished" bson:"isPublished"`
	ModeratedBy        string              `json:"moderatedBy,omitempty" bson:"moderatedBy,omitempty"`
	ModeratedAt        int64               `json:"moderatedAt,omitempty" bson:"moderatedAt,omitempty"`
}

// Evaluation lưu một đánh giá hoàn chỉnh (qa_evaluations).
type Evaluation struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	InteractionID     primitive.ObjectID `json:"interactionId" bson:"interactionId"`
	RubricID          primitive.ObjectID `json:"rubricId" bson:"rubricId"`
	AgentID           string             `json:"agentId" bson:"agentId"`
	AgentName         string             `json:"agentName,omitempty" bson:"agentName,omitempty"`
	EvaluatorIdentity string             `json:"evaluatorIdentity,omitempty" bson:"evaluatorIdentity,omitempty"`

	// Kết quả AI bất biến
	Parameters []EvaluationParameter `json:"parameters" bson:"parameters"`

	// Overlay của người kiểm duyệt (nil khi chưa kiểm duyệt)
	Overlay *HumanOverlay `json:"overlay,omitempty" bson:"overlay,omitempty"`

	// Snapshot điểm dẫn xuất + mirror tổng điểm cho consumer không đọc snapshot
	Snapshot   *scoring.SectionScoreSnapshot `json:"snapshot,omitempty" bson:"snapshot,omitempty"`
	TotalScore float64                       `json:"totalScore" bson:"totalScore"`
	MaxScore   float64                       `json:"maxScore" bson:"maxScore"`

	Status string `json:"status" bson:"status"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// statusRank thứ tự tiến của vòng đời, dùng cho kiểm tra chuyển trạng thái.
var statusRank = map[string]int{
	StatusPending:   0,
	StatusCompleted: 1,
	StatusModerated: 2,
	StatusPublished: 3,
}

// ValidateTransition kiểm tra chuyển trạng thái hợp lệ.
// Cho phép tiến một hoặc nhiều bước (completed → published khi kiểm duyệt kèm
// công bố) và đứng yên ở moderated (kiểm duyệt lại). Mọi lùi bước đều bị từ chối.
func ValidateTransition(from, to string) error {
	fromRank, okFrom := statusRank[from]
	toRank, okTo := statusRank[to]
	if !okFrom || !okTo {
		return common.NewError(
			common.ErrCodeEvaluationState,
			fmt.Sprintf("Trạng thái đánh giá không hợp lệ: '%s' → '%s'", from, to),
			common.StatusBadRequest,
			nil,
		)
	}
	if toRank < fromRank {
		return common.NewError(
			common.ErrCodeEvaluationState,
			fmt.Sprintf("Không thể chuyển đánh giá từ '%s' về '%s'", from, to),
			common.StatusBadRequest,
			nil,
		)
	}
	if toRank == fromRank && from != StatusModerated {
		return common.NewError(
			common.ErrCodeEvaluationState,
			fmt.Sprintf("Đánh giá đã ở trạng thái '%s'", from),
			common.StatusBadRequest,
			nil,
		)
	}
	return nil
}

// DeriveStatus tính trạng thái từ overlay (denormalized view).
func (e *Evaluation) DeriveStatus() string {
	if len(e.Parameters) == 0 {
		return StatusPending
	}
	if e.Overlay == nil || !e.Overlay.IsModerated {
		return StatusCompleted
	}
	if e.Overlay.IsPublished {
		return StatusPublished
	}
	return StatusModerated
}

// ScoringInputs hợp nhất kết quả AI với overlay thành input cho scoring.Compute.
func (e *Evaluation) ScoringInputs(overlay *HumanOverlay) []scoring.ParameterScore {
	overrides := make(map[string]*ParameterOverride)
	if overlay != nil {
		for i := range overlay.ParameterOverrides {
			overrides[overlay.ParameterOverrides[i].Name] = &overlay.ParameterOverrides[i]
		}
	}

	inputs := make([]scoring.ParameterScore, 0, len(e.Parameters))
	for _, p := range e.Parameters {
		input := scoring.ParameterScore{
			Name:  p.Name,
			Score: p.Score,
		}
		if o, ok := overrides[p.Name]; ok {
			input.HumanScore = o.HumanScore
			input.ClassificationOverride = o.ClassificationOverride
		}
		inputs = append(inputs, input)
	}
	return inputs
}
