// Package models - Rubric thuộc domain đánh giá chất lượng (qa_rubrics).
// Một rubric gồm các nhóm (section) và các tham số chấm điểm kèm phân loại mức độ vi phạm.
package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"qa_center/internal/common"
)

// Loại chấm điểm của một tham số
const (
	ScoringTypeBinary   = "binary"   // Chỉ 0 hoặc maxScore
	ScoringTypeVariable = "variable" // Điểm bất kỳ trong [0, maxScore]
)

// Phân loại mức độ vi phạm của một tham số
const (
	ClassificationNone     = "none"
	ClassificationMinor    = "minor"
	ClassificationModerate = "moderate"
	ClassificationMajor    = "major"
)

// ClassificationRank trả về thứ hạng mức độ vi phạm (major > moderate > minor > none).
// Dùng cho quy tắc severity-max khi tính điểm section.
func ClassificationRank(classification string) int {
	switch classification {
	case ClassificationMajor:
		return 3
	case ClassificationModerate:
		return 2
	case ClassificationMinor:
		return 1
	default:
		return 0
	}
}

// RubricGroup một nhóm (section) trong rubric.
type RubricGroup struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// RubricParameter một câu hỏi chấm điểm trong rubric.
// Tag validate có hiệu lực qua `dive` khi nhúng trong DTO tạo/cập nhật rubric.
type RubricParameter struct {
	Name           string  `json:"name" bson:"name" validate:"required"`
	Group          string  `json:"group" bson:"group" validate:"required"`
	MaxScore       float64 `json:"maxScore" bson:"maxScore" validate:"gte=0"`
	ScoringType    string  `json:"scoringType" bson:"scoringType" validate:"oneof=binary variable"`
	Classification string  `json:"classification" bson:"classification" validate:"severity"`
}

// ClassificationImpact phần trăm trừ điểm áp cho section theo mức độ vi phạm cao nhất.
type ClassificationImpact struct {
	Type       string  `json:"type" bson:"type"`
	Percentage float64 `json:"percentage" bson:"percentage"`
}

// Rubric lưu định nghĩa rubric đánh giá (qa_rubrics).
type Rubric struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	Name                  string                 `json:"name" bson:"name" index:"single:1"`
	Description           string                 `json:"description,omitempty" bson:"description,omitempty"`
	Groups                []RubricGroup          `json:"groups" bson:"groups"`
	Parameters            []RubricParameter      `json:"parameters" bson:"parameters"`
	ClassificationImpacts []ClassificationImpact `json:"classificationImpacts" bson:"classificationImpacts"`
	IsActive              bool                   `json:"isActive" bson:"isActive"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// ValidateDefinition kiểm tra tính nhất quán của rubric:
// mọi tham số phải tham chiếu một group đã khai báo, bảng impact phải đủ
// minor/moderate/major và percentage nằm trong [0, 100].
func (r *Rubric) ValidateDefinition() error {
	groupIDs := make(map[string]bool, len(r.Groups))
	for _, g := range r.Groups {
		if g.ID == "" {
			return common.NewError(common.ErrCodeValidationInput, "Group id không được để trống", common.StatusBadRequest, nil)
		}
		groupIDs[g.ID] = true
	}

	for _, p := range r.Parameters {
		if p.Name == "" {
			return common.NewError(common.ErrCodeValidationInput, "Tên tham số không được để trống", common.StatusBadRequest, nil)
		}
		if !groupIDs[p.Group] {
			return common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Tham số '%s' tham chiếu group '%s' chưa được khai báo", p.Name, p.Group),
				common.StatusBadRequest,
				nil,
			)
		}
		if p.MaxScore < 0 {
			return common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Tham số '%s' có maxScore âm", p.Name),
				common.StatusBadRequest,
				nil,
			)
		}
		switch p.ScoringType {
		case ScoringTypeBinary, ScoringTypeVariable:
		default:
			return common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Tham số '%s' có scoringType '%s' không hợp lệ (binary|variable)", p.Name, p.ScoringType),
				common.StatusBadRequest,
				nil,
			)
		}
		switch p.Classification {
		case ClassificationNone, ClassificationMinor, ClassificationModerate, ClassificationMajor:
		default:
			return common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Tham số '%s' có classification '%s' không hợp lệ (none|minor|moderate|major)", p.Name, p.Classification),
				common.StatusBadRequest,
				nil,
			)
		}
	}

	// Bảng impact phải đủ 3 mức độ vi phạm
	required := map[string]bool{
		ClassificationMinor:    false,
		ClassificationModerate: false,
		ClassificationMajor:    false,
	}
	for _, impact := range r.ClassificationImpacts {
		if impact.Percentage < 0 || impact.Percentage > 100 {
			return common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Impact '%s' có percentage %.2f ngoài khoảng [0, 100]", impact.Type, impact.Percentage),
				common.StatusBadRequest,
				nil,
			)
		}
		if _, ok := required[impact.Type]; ok {
			required[impact.Type] = true
		}
	}
	for classification, present := range required {
		if !present {
			return common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Bảng classification impact thiếu mức độ '%s'", classification),
				common.StatusBadRequest,
				nil,
			)
		}
	}

	return nil
}

// ParameterIndex xây map tên tham số → tham số, build một lần khi load rubric
// thay vì dò lại danh sách mỗi lần truy cập.
func (r *Rubric) ParameterIndex() map[string]*RubricParameter {
	index := make(map[string]*RubricParameter, len(r.Parameters))
	for i := range r.Parameters {
		index[r.Parameters[i].Name] = &r.Parameters[i]
	}
	return index
}

// ImpactTable trả về map classification → percentage trừ điểm.
func (r *Rubric) ImpactTable() map[string]float64 {
	table := make(map[string]float64, len(r.ClassificationImpacts))
	for _, impact := range r.ClassificationImpacts {
		table[impact.Type] = impact.Percentage
	}
	return table
}

// GroupName trả về tên hiển thị của group theo id (rỗng nếu không có).
func (r *Rubric) GroupName(groupID string) string {
	for _, g := range r.Groups {
		if g.ID == groupID {
			return g.Name
		}
	}
	return ""
}
