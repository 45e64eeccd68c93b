// Package interactionhdl - Handler CRUD interaction (ops feed).
package interactionhdl

import (
	"fmt"

	basehdl "qa_center/internal/api/base/handler"
	interactiondto "qa_center/internal/api/interaction/dto"
	interactionmodels "qa_center/internal/api/interaction/models"
	interactionsvc "qa_center/internal/api/interaction/service"
)

// InteractionHandler xử lý các yêu cầu liên quan đến interaction.
type InteractionHandler struct {
	*basehdl.BaseHandler[interactionmodels.Interaction, interactiondto.InteractionCreateInput, interactiondto.InteractionUpdateInput]
	InteractionService *interactionsvc.InteractionService
}

// NewInteractionHandler khởi tạo InteractionHandler mới.
func NewInteractionHandler() (*InteractionHandler, error) {
	service, err := interactionsvc.NewInteractionService()
	if err != nil {
		return nil, fmt.Errorf("tạo InteractionService: %w", err)
	}
	hdl := &InteractionHandler{InteractionService: service}
	hdl.BaseHandler = basehdl.NewBaseHandler[interactionmodels.Interaction, interactiondto.InteractionCreateInput, interactiondto.InteractionUpdateInput](service)
	return hdl, nil
}
