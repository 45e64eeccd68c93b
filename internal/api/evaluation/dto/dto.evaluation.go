// Package dto - DTO cho domain evaluation.
package dto

import (
	evalmodels "qa_center/internal/api/evaluation/models"
	"qa_center/internal/scoring"
)

// ModerateInput body của POST /evaluation/:id/moderate.
// Snapshot client gửi lên (nếu có) chỉ mang tính tham khảo — server luôn tính lại.
type ModerateInput struct {
	ParameterOverrides []evalmodels.ParameterOverride `json:"parameterOverrides,omitempty" validate:"omitempty,dive"`
	AdditionalComments string                         `json:"additionalComments,omitempty" validate:"omitempty,no_xss"`
	Publish            bool                           `json:"publish,omitempty"`

	// Advisory only — bị bỏ qua khi server tính lại snapshot
	Snapshot *scoring.SectionScoreSnapshot `json:"snapshot,omitempty"`
}

// AgentCommentInput body của POST /evaluation/:id/agent-comment.
type AgentCommentInput struct {
	Comment string `json:"comment" validate:"required,no_xss"`
}

// EvaluationCreateInput DTO rỗng cho base handler — evaluation chỉ được tạo
// bởi job chấm điểm, không qua HTTP insert.
type EvaluationCreateInput struct{}

// EvaluationUpdateInput DTO rỗng tương tự — mọi thay đổi đi qua moderation.
type EvaluationUpdateInput struct{}
