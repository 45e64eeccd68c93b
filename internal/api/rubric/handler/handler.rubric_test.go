package rubrichdl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	rubricdto "qa_center/internal/api/rubric/dto"
	rubricmodels "qa_center/internal/api/rubric/models"
)

func activeRubric() rubricmodels.Rubric {
	return rubricmodels.Rubric{
		Name:        "Bộ tiêu chí cuộc gọi nhắc nợ",
		Description: "Áp cho queue thu hồi nợ",
		Groups: []rubricmodels.RubricGroup{
			{ID: "opening", Name: "Mở đầu"},
		},
		Parameters: []rubricmodels.RubricParameter{
			{Name: "Chào hỏi đúng chuẩn", Group: "opening", MaxScore: 5, ScoringType: "binary", Classification: "minor"},
		},
		ClassificationImpacts: []rubricmodels.ClassificationImpact{
			{Type: "minor", Percentage: 10},
			{Type: "moderate", Percentage: 25},
			{Type: "major", Percentage: 100},
		},
		IsActive: true,
	}
}

func TestApplyRubricUpdate_OmittedIsActiveKeepsCurrent(t *testing.T) {
	current := activeRubric()

	// Request chỉ đổi tên, không gửi isActive: rubric phải còn bật
	applyRubricUpdate(&current, &rubricdto.RubricUpdateInput{Name: "Tên mới"})

	assert.Equal(t, "Tên mới", current.Name)
	assert.True(t, current.IsActive)
}

func TestApplyRubricUpdate_ExplicitIsActiveApplied(t *testing.T) {
	current := activeRubric()
	off := false

	applyRubricUpdate(&current, &rubricdto.RubricUpdateInput{IsActive: &off})
	assert.False(t, current.IsActive)

	on := true
	applyRubricUpdate(&current, &rubricdto.RubricUpdateInput{IsActive: &on})
	assert.True(t, current.IsActive)
}

func TestApplyRubricUpdate_OmittedFieldsKeepCurrent(t *testing.T) {
	current := activeRubric()

	applyRubricUpdate(&current, &rubricdto.RubricUpdateInput{})

	assert.Equal(t, "Bộ tiêu chí cuộc gọi nhắc nợ", current.Name)
	assert.Equal(t, "Áp cho queue thu hồi nợ", current.Description)
	assert.Len(t, current.Groups, 1)
	assert.Len(t, current.Parameters, 1)
	assert.Len(t, current.ClassificationImpacts, 3)
}

func TestApplyRubricUpdate_ListsReplaceWholesale(t *testing.T) {
	current := activeRubric()

	applyRubricUpdate(&current, &rubricdto.RubricUpdateInput{
		Parameters: []rubricmodels.RubricParameter{
			{Name: "Xác minh thông tin", Group: "opening", MaxScore: 10, ScoringType: "variable", Classification: "major"},
			{Name: "Thái độ", Group: "opening", MaxScore: 5, ScoringType: "variable", Classification: "none"},
		},
	})

	assert.Len(t, current.Parameters, 2)
	assert.Equal(t, "Xác minh thông tin", current.Parameters[0].Name)
}

func TestApplyRubricUpdate_MergedResultStillValidates(t *testing.T) {
	current := activeRubric()

	// Thay parameters trỏ tới group chưa khai báo: merge xong phải bị
	// ValidateDefinition chặn trước khi ghi
	applyRubricUpdate(&current, &rubricdto.RubricUpdateInput{
		Parameters: []rubricmodels.RubricParameter{
			{Name: "Chốt cuộc gọi", Group: "closing", MaxScore: 5, ScoringType: "binary", Classification: "minor"},
		},
	})

	assert.Error(t, current.ValidateDefinition())
}
