package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qa_center/internal/common"
)

func TestValidateTransition_Forward(t *testing.T) {
	assert.NoError(t, ValidateTransition(StatusCompleted, StatusModerated))
	assert.NoError(t, ValidateTransition(StatusModerated, StatusPublished))
	// Kiểm duyệt kèm công bố trong một lần gọi
	assert.NoError(t, ValidateTransition(StatusCompleted, StatusPublished))
}

func TestValidateTransition_Remoderate(t *testing.T) {
	// Kiểm duyệt lại khi chưa công bố là hợp lệ
	assert.NoError(t, ValidateTransition(StatusModerated, StatusModerated))
}

func TestValidateTransition_Backward(t *testing.T) {
	err := ValidateTransition(StatusPublished, StatusModerated)
	require.Error(t, err)
	var appErr *common.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.ErrCodeEvaluationState, appErr.Code)

	assert.Error(t, ValidateTransition(StatusModerated, StatusCompleted))
	assert.Error(t, ValidateTransition(StatusCompleted, StatusPending))
}

func TestValidateTransition_SameNonModerated(t *testing.T) {
	assert.Error(t, ValidateTransition(StatusCompleted, StatusCompleted))
	assert.Error(t, ValidateTransition(StatusPublished, StatusPublished))
}

func TestValidateTransition_UnknownStatus(t *testing.T) {
	assert.Error(t, ValidateTransition("draft", StatusModerated))
	assert.Error(t, ValidateTransition(StatusCompleted, "archived"))
}

func TestDeriveStatus(t *testing.T) {
	eval := Evaluation{}
	assert.Equal(t, StatusPending, eval.DeriveStatus())

	eval.Parameters = []EvaluationParameter{{Name: "Chào hỏi", Score: 5}}
	assert.Equal(t, StatusCompleted, eval.DeriveStatus())

	eval.Overlay = &HumanOverlay{IsModerated: true}
	assert.Equal(t, StatusModerated, eval.DeriveStatus())

	eval.Overlay.IsPublished = true
	assert.Equal(t, StatusPublished, eval.DeriveStatus())
}

func TestScoringInputs_MergesOverrides(t *testing.T) {
	human := 3.0
	eval := Evaluation{
		Parameters: []EvaluationParameter{
			{Name: "Chào hỏi", Score: 5},
			{Name: "Xác nhận danh tính", Score: 0},
		},
	}
	overlay := &HumanOverlay{
		ParameterOverrides: []ParameterOverride{
			{Name: "Xác nhận danh tính", HumanScore: &human, ClassificationOverride: "minor"},
		},
	}

	inputs := eval.ScoringInputs(overlay)
	require.Len(t, inputs, 2)

	assert.Equal(t, "Chào hỏi", inputs[0].Name)
	assert.Nil(t, inputs[0].HumanScore)

	assert.Equal(t, "Xác nhận danh tính", inputs[1].Name)
	require.NotNil(t, inputs[1].HumanScore)
	assert.Equal(t, 3.0, *inputs[1].HumanScore)
	assert.Equal(t, "minor", inputs[1].ClassificationOverride)
}

func TestScoringInputs_NilOverlay(t *testing.T) {
	eval := Evaluation{
		Parameters: []EvaluationParameter{{Name: "Chào hỏi", Score: 5}},
	}
	inputs := eval.ScoringInputs(nil)
	require.Len(t, inputs, 1)
	assert.Nil(t, inputs[0].HumanScore)
	assert.Empty(t, inputs[0].ClassificationOverride)
}
