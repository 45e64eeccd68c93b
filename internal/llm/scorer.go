// Package llm - Biên giới chấm điểm AI. Queue và executor chỉ thấy interface
// Scorer nên test có thể inject bản giả, không đụng tới API thật.
package llm

import (
	"context"

	interactionmodels "qa_center/internal/api/interaction/models"
	rubricmodels "qa_center/internal/api/rubric/models"
)

// ParameterResult điểm AI cho một tham số rubric.
// Score = -1 nghĩa là tham số không áp dụng cho tương tác này.
type ParameterResult struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
	Confidence  float64 `json:"confidence"`
}

// Scorer chấm một tương tác theo rubric, trả về điểm từng tham số.
type Scorer interface {
	Score(ctx context.Context, interaction *interactionmodels.Interaction, rubric *rubricmodels.Rubric) ([]ParameterResult, error)
}
