// Package scoring - Tính điểm section/tổng thể cho một đánh giá.
// Compute là hàm thuần: không I/O, kết quả chỉ phụ thuộc tham số đầu vào,
// nên có thể tính lại bất cứ lúc nào overlay của người kiểm duyệt thay đổi.
package scoring

import (
	"math"

	rubricmodels "qa_center/internal/api/rubric/models"
)

// ScoreNotApplicable là sentinel đánh dấu tham số không áp dụng.
// Tham số N/A bị loại khỏi cả raw lẫn max của section — không cộng không trừ.
const ScoreNotApplicable = -1

// ParameterScore điểm một tham số, gồm điểm AI và override của người kiểm duyệt.
type ParameterScore struct {
	Name                   string   `json:"name" bson:"name"`
	Score                  float64  `json:"score" bson:"score"`
	HumanScore             *float64 `json:"humanScore,omitempty" bson:"humanScore,omitempty"`
	ClassificationOverride string   `json:"classificationOverride,omitempty" bson:"classificationOverride,omitempty"`
}

// EffectiveScore điểm có hiệu lực: override của người kiểm duyệt thắng điểm AI.
func (p *ParameterScore) EffectiveScore() float64 {
	if p.HumanScore != nil {
		return *p.HumanScore
	}
	return p.Score
}

// SectionScore điểm của một section (group trong rubric) sau khi áp trừ điểm.
type SectionScore struct {
	GroupID                     string  `json:"groupId" bson:"groupId"`
	GroupName                   string  `json:"groupName,omitempty" bson:"groupName,omitempty"`
	RawScore                    float64 `json:"rawScore" bson:"rawScore"`
	MaxScore                    float64 `json:"maxScore" bson:"maxScore"`
	AdjustedScore               float64 `json:"adjustedScore" bson:"adjustedScore"`
	Percentage                  int     `json:"percentage" bson:"percentage"`
	HighestClassification       string  `json:"highestClassification" bson:"highestClassification"`
	HighestClassificationImpact float64 `json:"highestClassificationImpact" bson:"highestClassificationImpact"`
}

// SectionScoreSnapshot kết quả tính điểm đầy đủ, lưu kèm đánh giá.
// Luôn là dẫn xuất từ (điểm tham số, rubric) — không bao giờ sửa tay.
type SectionScoreSnapshot struct {
	Sections []SectionScore `json:"sections" bson:"sections"`
	Overall  SectionScore   `json:"overall" bson:"overall"`
}

// Compute tính snapshot điểm từ điểm tham số và rubric.
//
// Quy tắc:
//   - Tham số không có trong rubric bị bỏ qua.
//   - Điểm có hiệu lực = humanScore nếu có, ngược lại điểm AI; -1 = N/A,
//     loại khỏi cả raw lẫn max.
//   - Impact của section = mức phân loại cao nhất xuất hiện trong các tham số
//     được tính (major > moderate > minor > none) — severity-max, không cộng dồn.
//   - Cơ sở trừ điểm là RAW score của section (quyết định thiết kế, áp dụng
//     thống nhất mọi nơi): deduction = raw * impact/100.
//   - adjusted = max(0, raw - deduction); percentage = round(adjusted/max*100)
//     khi max > 0, ngược lại 0.
//   - Overall = tổng raw/adjusted/max các section, percentage tính cùng quy tắc.
func Compute(params []ParameterScore, rubric *rubricmodels.Rubric) *SectionScoreSnapshot {
	paramIndex := rubric.ParameterIndex()
	impactTable := rubric.ImpactTable()

	type sectionAccum struct {
		raw      float64
		max      float64
		topClass string
		topRank  int
	}
	accums := make(map[string]*sectionAccum, len(rubric.Groups))
	for _, g := range rubric.Groups {
		accums[g.ID] = &sectionAccum{topClass: rubricmodels.ClassificationNone}
	}

	for i := range params {
		p := &params[i]
		def, ok := paramIndex[p.Name]
		if !ok {
			continue // Tham số không khai báo trong rubric
		}
		accum, ok := accums[def.Group]
		if !ok {
			continue
		}

		score := p.EffectiveScore()
		if score == ScoreNotApplicable {
			continue // N/A: không cộng không trừ
		}

		accum.raw += score
		accum.max += def.MaxScore

		classification := def.Classification
		if p.ClassificationOverride != "" {
			classification = p.ClassificationOverride
		}
		if rank := rubricmodels.ClassificationRank(classification); rank > accum.topRank {
			accum.topRank = rank
			accum.topClass = classification
		}
	}

	snapshot := &SectionScoreSnapshot{
		Sections: make([]SectionScore, 0, len(rubric.Groups)),
	}

	var overallRaw, overallAdjusted, overallMax float64
	for _, g := range rubric.Groups {
		accum := accums[g.ID]

		impact := 0.0
		if accum.topClass != rubricmodels.ClassificationNone {
			impact = impactTable[accum.topClass]
		}

		deduction := accum.raw * impact / 100
		adjusted := accum.raw - deduction
		if adjusted < 0 {
			adjusted = 0
		}

		snapshot.Sections = append(snapshot.Sections, SectionScore{
			GroupID:                     g.ID,
			GroupName:                   g.Name,
			RawScore:                    accum.raw,
			MaxScore:                    accum.max,
			AdjustedScore:               adjusted,
			Percentage:                  percentage(adjusted, accum.max),
			HighestClassification:       accum.topClass,
			HighestClassificationImpact: impact,
		})

		overallRaw += accum.raw
		overallAdjusted += adjusted
		overallMax += accum.max
	}

	snapshot.Overall = SectionScore{
		GroupID:               "overall",
		RawScore:              overallRaw,
		MaxScore:              overallMax,
		AdjustedScore:         overallAdjusted,
		Percentage:            percentage(overallAdjusted, overallMax),
		HighestClassification: rubricmodels.ClassificationNone,
	}

	return snapshot
}

func percentage(adjusted, max float64) int {
	if max <= 0 {
		return 0
	}
	return int(math.Round(adjusted / max * 100))
}
