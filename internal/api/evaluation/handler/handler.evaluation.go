// Package evalhdl - Handler đánh giá: CRUD đọc + moderation + phản hồi agent.
package evalhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "qa_center/internal/api/base/handler"
	evaldto "qa_center/internal/api/evaluation/dto"
	evalmodels "qa_center/internal/api/evaluation/models"
	evalsvc "qa_center/internal/api/evaluation/service"
	"qa_center/internal/common"
)

// EvaluationHandler xử lý các yêu cầu liên quan đến đánh giá.
type EvaluationHandler struct {
	*basehdl.BaseHandler[evalmodels.Evaluation, evaldto.EvaluationCreateInput, evaldto.EvaluationUpdateInput]
	EvaluationService *evalsvc.EvaluationService
}

// NewEvaluationHandler khởi tạo EvaluationHandler mới.
func NewEvaluationHandler() (*EvaluationHandler, error) {
	service, err := evalsvc.NewEvaluationService()
	if err != nil {
		return nil, fmt.Errorf("tạo EvaluationService: %w", err)
	}
	hdl := &EvaluationHandler{EvaluationService: service}
	hdl.BaseHandler = basehdl.NewBaseHandler[evalmodels.Evaluation, evaldto.EvaluationCreateInput, evaldto.EvaluationUpdateInput](service)
	return hdl, nil
}

// HandleModerate xử lý POST /evaluation/:id/moderate.
// Danh tính người kiểm duyệt lấy từ header X-Moderator-Id (auth nằm ngoài phạm vi,
// danh tính đến dưới dạng header đã được tin cậy).
func (h *EvaluationHandler) HandleModerate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		objID, err := common.ParseObjectID(h.GetIDFromContext(c))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		moderator := c.Get("X-Moderator-Id")
		if moderator == "" {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Thiếu header X-Moderator-Id",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		var input evaldto.ModerateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.EvaluationService.Moderate(c.Context(), objID, &input, moderator)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandlePublish xử lý POST /evaluation/:id/publish (moderated → published).
func (h *EvaluationHandler) HandlePublish(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		objID, err := common.ParseObjectID(h.GetIDFromContext(c))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		moderator := c.Get("X-Moderator-Id")
		if moderator == "" {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Thiếu header X-Moderator-Id",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		data, err := h.EvaluationService.Publish(c.Context(), objID, moderator)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleAgentComment xử lý POST /evaluation/:id/agent-comment.
// Người gọi xác định qua header X-Agent-Id; bị từ chối 403 nếu đánh giá chưa
// published hoặc người gọi không phải agent của tương tác.
func (h *EvaluationHandler) HandleAgentComment(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		objID, err := common.ParseObjectID(h.GetIDFromContext(c))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		agentRef := c.Get("X-Agent-Id")

		var input evaldto.AgentCommentInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.EvaluationService.SubmitAgentComment(c.Context(), objID, agentRef, input.Comment)
		h.HandleResponse(c, data, err)
		return nil
	})
}
