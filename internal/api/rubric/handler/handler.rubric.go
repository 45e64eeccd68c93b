// Package rubrichdl - Handler CRUD rubric.
package rubrichdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "qa_center/internal/api/base/handler"
	rubricdto "qa_center/internal/api/rubric/dto"
	rubricmodels "qa_center/internal/api/rubric/models"
	rubricsvc "qa_center/internal/api/rubric/service"
	"qa_center/internal/common"
)

// RubricHandler xử lý các yêu cầu liên quan đến rubric.
type RubricHandler struct {
	*basehdl.BaseHandler[rubricmodels.Rubric, rubricdto.RubricCreateInput, rubricdto.RubricUpdateInput]
	RubricService *rubricsvc.RubricService
}

// NewRubricHandler khởi tạo RubricHandler mới.
func NewRubricHandler() (*RubricHandler, error) {
	service, err := rubricsvc.NewRubricService()
	if err != nil {
		return nil, fmt.Errorf("tạo RubricService: %w", err)
	}
	hdl := &RubricHandler{RubricService: service}
	hdl.BaseHandler = basehdl.NewBaseHandler[rubricmodels.Rubric, rubricdto.RubricCreateInput, rubricdto.RubricUpdateInput](service)
	return hdl, nil
}

// InsertOne thêm rubric mới, validate tính nhất quán của định nghĩa trước khi ghi
// (tham số phải tham chiếu group đã khai báo, bảng impact đủ minor/moderate/major).
func (h *RubricHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input rubricdto.RubricCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		model, err := h.TransformCreateInputToModel(&input)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Lỗi transform dữ liệu: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}

		data, err := h.RubricService.CreateRubric(c.Context(), *model)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// applyRubricUpdate merge input vào bản hiện tại: field bỏ trống giữ nguyên,
// IsActive chỉ đổi khi input gửi tường minh (con trỏ khác nil).
func applyRubricUpdate(current *rubricmodels.Rubric, input *rubricdto.RubricUpdateInput) {
	if input.Name != "" {
		current.Name = input.Name
	}
	if input.Description != "" {
		current.Description = input.Description
	}
	if input.Groups != nil {
		current.Groups = input.Groups
	}
	if input.Parameters != nil {
		current.Parameters = input.Parameters
	}
	if input.ClassificationImpacts != nil {
		current.ClassificationImpacts = input.ClassificationImpacts
	}
	if input.IsActive != nil {
		current.IsActive = *input.IsActive
	}
}

// UpdateById cập nhật rubric theo id. Nếu input có thay đổi groups/parameters/impacts,
// merge với bản hiện tại rồi validate lại toàn bộ định nghĩa trước khi ghi.
func (h *RubricHandler) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := h.GetIDFromContext(c)
		objID, err := common.ParseObjectID(id)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input rubricdto.RubricUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		current, err := h.RubricService.FindOneById(c.Context(), objID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		// Merge input vào bản hiện tại để validate trọn vẹn định nghĩa
		applyRubricUpdate(&current, &input)

		if err := current.ValidateDefinition(); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.RubricService.UpdateById(c.Context(), objID, map[string]interface{}{
			"$set": map[string]interface{}{
				"name":                  current.Name,
				"description":           current.Description,
				"groups":                current.Groups,
				"parameters":            current.Parameters,
				"classificationImpacts": current.ClassificationImpacts,
				"isActive":              current.IsActive,
			},
		})
		h.HandleResponse(c, data, err)
		return nil
	})
}
