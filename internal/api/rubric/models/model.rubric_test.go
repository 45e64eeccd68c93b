package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRubric() Rubric {
	return Rubric{
		Name: "Bộ tiêu chí test",
		Groups: []RubricGroup{
			{ID: "opening", Name: "Mở đầu"},
			{ID: "handling", Name: "Xử lý yêu cầu"},
		},
		Parameters: []RubricParameter{
			{Name: "Chào hỏi", Group: "opening", MaxScore: 5, ScoringType: ScoringTypeBinary, Classification: ClassificationMinor},
			{Name: "Giải quyết vấn đề", Group: "handling", MaxScore: 10, ScoringType: ScoringTypeVariable, Classification: ClassificationMajor},
		},
		ClassificationImpacts: []ClassificationImpact{
			{Type: ClassificationMinor, Percentage: 10},
			{Type: ClassificationModerate, Percentage: 25},
			{Type: ClassificationMajor, Percentage: 50},
		},
		IsActive: true,
	}
}

func TestValidateDefinition_Valid(t *testing.T) {
	rubric := validRubric()
	assert.NoError(t, rubric.ValidateDefinition())
}

func TestValidateDefinition_UnknownGroup(t *testing.T) {
	rubric := validRubric()
	rubric.Parameters[0].Group = "closing"
	assert.Error(t, rubric.ValidateDefinition())
}

func TestValidateDefinition_EmptyGroupID(t *testing.T) {
	rubric := validRubric()
	rubric.Groups[0].ID = ""
	assert.Error(t, rubric.ValidateDefinition())
}

func TestValidateDefinition_NegativeMaxScore(t *testing.T) {
	rubric := validRubric()
	rubric.Parameters[1].MaxScore = -1
	assert.Error(t, rubric.ValidateDefinition())
}

func TestValidateDefinition_InvalidScoringType(t *testing.T) {
	rubric := validRubric()
	rubric.Parameters[0].ScoringType = "weighted"
	assert.Error(t, rubric.ValidateDefinition())
}

func TestValidateDefinition_InvalidClassification(t *testing.T) {
	rubric := validRubric()
	rubric.Parameters[0].Classification = "critical"
	assert.Error(t, rubric.ValidateDefinition())
}

func TestValidateDefinition_ImpactOutOfRange(t *testing.T) {
	rubric := validRubric()
	rubric.ClassificationImpacts[2].Percentage = 120
	assert.Error(t, rubric.ValidateDefinition())
}

func TestValidateDefinition_MissingImpactLevel(t *testing.T) {
	rubric := validRubric()
	rubric.ClassificationImpacts = rubric.ClassificationImpacts[:2] // thiếu major
	assert.Error(t, rubric.ValidateDefinition())
}

func TestClassificationRank(t *testing.T) {
	assert.Greater(t, ClassificationRank(ClassificationMajor), ClassificationRank(ClassificationModerate))
	assert.Greater(t, ClassificationRank(ClassificationModerate), ClassificationRank(ClassificationMinor))
	assert.Greater(t, ClassificationRank(ClassificationMinor), ClassificationRank(ClassificationNone))
	assert.Equal(t, 0, ClassificationRank("unknown"))
}

func TestParameterIndexAndImpactTable(t *testing.T) {
	rubric := validRubric()

	index := rubric.ParameterIndex()
	require.Contains(t, index, "Chào hỏi")
	assert.Equal(t, 5.0, index["Chào hỏi"].MaxScore)

	table := rubric.ImpactTable()
	assert.Equal(t, 50.0, table[ClassificationMajor])

	assert.Equal(t, "Mở đầu", rubric.GroupName("opening"))
	assert.Empty(t, rubric.GroupName("missing"))
}
