package scoring

import (
	"reflect"
	"testing"

	rubricmodels "qa_center/internal/api/rubric/models"
)

// openingRubric rubric một group "Opening" hai tham số maxScore 5, impact 10/25/50.
func openingRubric(classP1, classP2 string) *rubricmodels.Rubric {
	return &rubricmodels.Rubric{
		Name: "Chăm sóc khách hàng",
		Groups: []rubricmodels.RubricGroup{
			{ID: "opening", Name: "Opening"},
		},
		Parameters: []rubricmodels.RubricParameter{
			{Name: "Chào hỏi", Group: "opening", MaxScore: 5, ScoringType: rubricmodels.ScoringTypeVariable, Classification: classP1},
			{Name: "Xác minh thông tin", Group: "opening", MaxScore: 5, ScoringType: rubricmodels.ScoringTypeVariable, Classification: classP2},
		},
		ClassificationImpacts: []rubricmodels.ClassificationImpact{
			{Type: rubricmodels.ClassificationMinor, Percentage: 10},
			{Type: rubricmodels.ClassificationModerate, Percentage: 25},
			{Type: rubricmodels.ClassificationMajor, Percentage: 50},
		},
	}
}

func TestComputeScenarioMinorImpact(t *testing.T) {
	// AI chấm 4 và 3 (raw 7/10), một tham số flag minor (10%, cơ sở = raw):
	// adjusted = 7 - 0.7 = 6.3; percentage = round(6.3/10*100) = 63
	rubric := openingRubric(rubricmodels.ClassificationMinor, rubricmodels.ClassificationNone)
	params := []ParameterScore{
		{Name: "Chào hỏi", Score: 4},
		{Name: "Xác minh thông tin", Score: 3},
	}

	snapshot := Compute(params, rubric)

	section := snapshot.Sections[0]
	if section.RawScore != 7 {
		t.Errorf("RawScore = %v, muốn 7", section.RawScore)
	}
	if section.MaxScore != 10 {
		t.Errorf("MaxScore = %v, muốn 10", section.MaxScore)
	}
	if section.AdjustedScore != 6.3 {
		t.Errorf("AdjustedScore = %v, muốn 6.3", section.AdjustedScore)
	}
	if section.Percentage != 63 {
		t.Errorf("Percentage = %v, muốn 63", section.Percentage)
	}
	if section.HighestClassification != rubricmodels.ClassificationMinor {
		t.Errorf("HighestClassification = %v, muốn minor", section.HighestClassification)
	}
	if snapshot.Overall.Percentage != 63 {
		t.Errorf("Overall.Percentage = %v, muốn 63", snapshot.Overall.Percentage)
	}
}

func TestComputeScenarioMajorImpact(t *testing.T) {
	// Một tham số flag major (50%): adjusted = 7 - 3.5 = 3.5; percentage = 35
	rubric := openingRubric(rubricmodels.ClassificationMajor, rubricmodels.ClassificationNone)
	params := []ParameterScore{
		{Name: "Chào hỏi", Score: 4},
		{Name: "Xác minh thông tin", Score: 3},
	}

	snapshot := Compute(params, rubric)

	section := snapshot.Sections[0]
	if section.AdjustedScore != 3.5 {
		t.Errorf("AdjustedScore = %v, muốn 3.5", section.AdjustedScore)
	}
	if section.Percentage != 35 {
		t.Errorf("Percentage = %v, muốn 35", section.Percentage)
	}
}

func TestComputeSeverityMax(t *testing.T) {
	// Section có cả minor lẫn major: impact áp dụng là major (50), không cộng dồn,
	// không lấy minor.
	rubric := openingRubric(rubricmodels.ClassificationMinor, rubricmodels.ClassificationMajor)
	params := []ParameterScore{
		{Name: "Chào hỏi", Score: 5},
		{Name: "Xác minh thông tin", Score: 5},
	}

	snapshot := Compute(params, rubric)

	section := snapshot.Sections[0]
	if section.HighestClassification != rubricmodels.ClassificationMajor {
		t.Errorf("HighestClassification = %v, muốn major", section.HighestClassification)
	}
	if section.HighestClassificationImpact != 50 {
		t.Errorf("HighestClassificationImpact = %v, muốn 50", section.HighestClassificationImpact)
	}
	if section.AdjustedScore != 5 {
		t.Errorf("AdjustedScore = %v, muốn 5 (10 - 50%%)", section.AdjustedScore)
	}
}

func TestComputeNotApplicableExcluded(t *testing.T) {
	// Điểm -1 = N/A: không đóng góp vào raw lẫn max của section
	rubric := openingRubric(rubricmodels.ClassificationNone, rubricmodels.ClassificationMajor)
	params := []ParameterScore{
		{Name: "Chào hỏi", Score: 4},
		{Name: "Xác minh thông tin", Score: ScoreNotApplicable},
	}

	snapshot := Compute(params, rubric)

	section := snapshot.Sections[0]
	if section.RawScore != 4 {
		t.Errorf("RawScore = %v, muốn 4", section.RawScore)
	}
	if section.MaxScore != 5 {
		t.Errorf("MaxScore = %v, muốn 5", section.MaxScore)
	}
	// Tham số N/A mang classification major nhưng bị loại → không trừ điểm
	if section.HighestClassification != rubricmodels.ClassificationNone {
		t.Errorf("HighestClassification = %v, muốn none", section.HighestClassification)
	}
	if section.AdjustedScore != 4 {
		t.Errorf("AdjustedScore = %v, muốn 4", section.AdjustedScore)
	}
}

func TestComputeHumanOverrideWins(t *testing.T) {
	rubric := openingRubric(rubricmodels.ClassificationNone, rubricmodels.ClassificationNone)
	override := 5.0
	params := []ParameterScore{
		{Name: "Chào hỏi", Score: 2, HumanScore: &override},
		{Name: "Xác minh thông tin", Score: 3},
	}

	snapshot := Compute(params, rubric)

	if snapshot.Sections[0].RawScore != 8 {
		t.Errorf("RawScore = %v, muốn 8 (override 5 thay điểm AI 2)", snapshot.Sections[0].RawScore)
	}
}

func TestComputeClassificationOverrideWins(t *testing.T) {
	// Người kiểm duyệt nâng phân loại từ none lên major → impact 50 áp dụng
	rubric := openingRubric(rubricmodels.ClassificationNone, rubricmodels.ClassificationNone)
	params := []ParameterScore{
		{Name: "Chào hỏi", Score: 4, ClassificationOverride: rubricmodels.ClassificationMajor},
		{Name: "Xác minh thông tin", Score: 3},
	}

	snapshot := Compute(params, rubric)

	section := snapshot.Sections[0]
	if section.HighestClassification != rubricmodels.ClassificationMajor {
		t.Errorf("HighestClassification = %v, muốn major", section.HighestClassification)
	}
	if section.AdjustedScore != 3.5 {
		t.Errorf("AdjustedScore = %v, muốn 3.5", section.AdjustedScore)
	}
}

func TestComputeUnmappedParameterIgnored(t *testing.T) {
	rubric := openingRubric(rubricmodels.ClassificationNone, rubricmodels.ClassificationNone)
	params := []ParameterScore{
		{Name: "Chào hỏi", Score: 4},
		{Name: "Tham số không tồn tại", Score: 5},
	}

	snapshot := Compute(params, rubric)

	if snapshot.Sections[0].RawScore != 4 {
		t.Errorf("RawScore = %v, muốn 4 (tham số lạ bị bỏ qua)", snapshot.Sections[0].RawScore)
	}
}

func TestComputeDeterministic(t *testing.T) {
	// Hàm thuần: hai lần gọi cùng input cho kết quả giống hệt nhau
	rubric := openingRubric(rubricmodels.ClassificationMinor, rubricmodels.ClassificationModerate)
	params := []ParameterScore{
		{Name: "Chào hỏi", Score: 4},
		{Name: "Xác minh thông tin", Score: 3},
	}

	first := Compute(params, rubric)
	second := Compute(params, rubric)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Compute không deterministic:\nlần 1: %+v\nlần 2: %+v", first, second)
	}
}

func TestComputeAdjustedBounds(t *testing.T) {
	// 0 <= adjusted <= raw với mọi section
	rubric := openingRubric(rubricmodels.ClassificationMajor, rubricmodels.ClassificationMajor)
	cases := [][]ParameterScore{
		{{Name: "Chào hỏi", Score: 0}, {Name: "Xác minh thông tin", Score: 0}},
		{{Name: "Chào hỏi", Score: 5}, {Name: "Xác minh thông tin", Score: 5}},
		{{Name: "Chào hỏi", Score: 2.5}, {Name: "Xác minh thông tin", Score: ScoreNotApplicable}},
	}

	for i, params := range cases {
		snapshot := Compute(params, rubric)
		for _, section := range snapshot.Sections {
			if section.AdjustedScore < 0 || section.AdjustedScore > section.RawScore {
				t.Errorf("case %d: adjusted %v ngoài khoảng [0, raw=%v]", i, section.AdjustedScore, section.RawScore)
			}
		}
	}
}

func TestComputeEmptyMaxScore(t *testing.T) {
	// Section không có tham số nào được tính → percentage 0, không chia cho 0
	rubric := openingRubric(rubricmodels.ClassificationNone, rubricmodels.ClassificationNone)
	params := []ParameterScore{
		{Name: "Chào hỏi", Score: ScoreNotApplicable},
		{Name: "Xác minh thông tin", Score: ScoreNotApplicable},
	}

	snapshot := Compute(params, rubric)

	section := snapshot.Sections[0]
	if section.MaxScore != 0 || section.Percentage != 0 {
		t.Errorf("section rỗng: max=%v percentage=%v, muốn 0/0", section.MaxScore, section.Percentage)
	}
	if snapshot.Overall.Percentage != 0 {
		t.Errorf("Overall.Percentage = %v, muốn 0", snapshot.Overall.Percentage)
	}
}
