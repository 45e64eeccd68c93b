// Package dto - DTO cho domain rubric.
package dto

import (
	rubricmodels "qa_center/internal/api/rubric/models"
)

// RubricCreateInput dữ liệu tạo rubric mới.
type RubricCreateInput struct {
	Name                  string                              `json:"name" validate:"required,no_xss"`
	Description           string                              `json:"description,omitempty" validate:"omitempty,no_xss"`
	Groups                []rubricmodels.RubricGroup          `json:"groups" validate:"required,min=1"`
	Parameters            []rubricmodels.RubricParameter      `json:"parameters" validate:"required,min=1,dive"`
	ClassificationImpacts []rubricmodels.ClassificationImpact `json:"classificationImpacts" validate:"required,min=3"`
	IsActive              bool                                `json:"isActive"`
}

// RubricUpdateInput dữ liệu cập nhật rubric.
// Groups/Parameters/ClassificationImpacts luôn thay thế toàn bộ danh sách cũ.
// IsActive là con trỏ: nil = giữ nguyên, tránh việc thiếu field vô tình tắt rubric.
type RubricUpdateInput struct {
	Name                  string                              `json:"name,omitempty" validate:"omitempty,no_xss"`
	Description           string                              `json:"description,omitempty" validate:"omitempty,no_xss"`
	Groups                []rubricmodels.RubricGroup          `json:"groups,omitempty"`
	Parameters            []rubricmodels.RubricParameter      `json:"parameters,omitempty" validate:"omitempty,dive"`
	ClassificationImpacts []rubricmodels.ClassificationImpact `json:"classificationImpacts,omitempty"`
	IsActive              *bool                               `json:"isActive,omitempty"`
}
