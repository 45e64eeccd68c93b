// Package schedhdl - Handler cho SelectionProfile + các endpoint điều khiển scheduler.
package schedhdl

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"

	basehdl "qa_center/internal/api/base/handler"
	"qa_center/internal/api/schedule/dto"
	schedmodels "qa_center/internal/api/schedule/models"
	schedsvc "qa_center/internal/api/schedule/service"
	"qa_center/internal/common"
	"qa_center/internal/scheduler"
)

// ScheduleHandler xử lý CRUD profile và các thao tác lịch/chạy thủ công/history.
type ScheduleHandler struct {
	*basehdl.BaseHandler[schedmodels.SelectionProfile, dto.SelectionProfileCreateInput, dto.SelectionProfileUpdateInput]
	Scheduler      *scheduler.Scheduler
	HistoryService *schedsvc.SchedulerHistoryService
}

// NewScheduleHandler khởi tạo ScheduleHandler, nhận scheduler đã chạy từ cmd/server.
func NewScheduleHandler(sched *scheduler.Scheduler) (*ScheduleHandler, error) {
	service, err := schedsvc.NewSelectionProfileService()
	if err != nil {
		return nil, fmt.Errorf("tạo SelectionProfileService: %w", err)
	}
	history, err := schedsvc.NewSchedulerHistoryService()
	if err != nil {
		return nil, fmt.Errorf("tạo SchedulerHistoryService: %w", err)
	}

	hdl := &ScheduleHandler{
		Scheduler:      sched,
		HistoryService: history,
	}
	hdl.BaseHandler = basehdl.NewBaseHandler[schedmodels.SelectionProfile, dto.SelectionProfileCreateInput, dto.SelectionProfileUpdateInput](service)
	return hdl, nil
}

// HandleUpdateScheduleConfig xử lý PUT /selection-profile/scheduler-config/:id.
// Cron expression không hợp lệ bị từ chối 400 trước khi đụng tới profile.
func (h *ScheduleHandler) HandleUpdateScheduleConfig(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		objID, err := common.ParseObjectID(h.GetIDFromContext(c))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input dto.ScheduleConfigInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		cfg := schedmodels.ScheduleConfig{
			Enabled:           input.Enabled,
			CronExpression:    input.CronExpression,
			MaxEvaluations:    input.MaxEvaluations,
			EvaluatorIdentity: input.EvaluatorIdentity,
		}
		data, err := h.Scheduler.UpdateSchedule(c.Context(), objID, cfg)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleRunProfile xử lý POST /selection-profile/scheduler-run/:id — chạy thủ công
// một lượt quét, không đụng tới lịch cron của profile.
func (h *ScheduleHandler) HandleRunProfile(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		objID, err := common.ParseObjectID(h.GetIDFromContext(c))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input dto.SchedulerRunInput
		if len(c.Body()) > 0 {
			if err := h.ParseRequestBody(c, &input); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			if err := h.ValidateInput(&input); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
		}

		data, err := h.Scheduler.RunProfile(c.Context(), objID, input.MaxEvaluations, schedmodels.TriggerManual)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleHistory xử lý GET /selection-profile/scheduler-history/:id?limit=N.
func (h *ScheduleHandler) HandleHistory(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		objID, err := common.ParseObjectID(h.GetIDFromContext(c))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		limit, err := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
		if err != nil || limit <= 0 {
			limit = 20
		}
		data, err := h.HistoryService.FindByProfile(c.Context(), objID, limit)
		h.HandleResponse(c, data, err)
		return nil
	})
}
