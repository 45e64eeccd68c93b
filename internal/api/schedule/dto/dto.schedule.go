// Package dto - DTO cho domain schedule.
package dto

import (
	schedmodels "qa_center/internal/api/schedule/models"
)

// SelectionProfileCreateInput dữ liệu tạo profile chọn interaction.
type SelectionProfileCreateInput struct {
	Name             string                `json:"name" validate:"required,no_xss"`
	Queues           []string              `json:"queues,omitempty"`
	Agents           []string              `json:"agents,omitempty"`
	WorkCodes        []string              `json:"workCodes,omitempty"`
	Direction        string                `json:"direction,omitempty" validate:"omitempty,oneof=inbound outbound"`
	MinCallDuration  int                   `json:"minCallDuration,omitempty" validate:"omitempty,gte=0"`
	Channels         []string              `json:"channels,omitempty"`
	DateWindow       schedmodels.DateWindow `json:"dateWindow,omitempty"`
	EvaluationFormID string                `json:"evaluationFormId" validate:"required"`
	Schedule         ScheduleConfigInput   `json:"schedule,omitempty"`
}

// SelectionProfileUpdateInput dữ liệu cập nhật profile.
type SelectionProfileUpdateInput struct {
	Name            string                 `json:"name,omitempty" validate:"omitempty,no_xss"`
	Queues          []string               `json:"queues,omitempty"`
	Agents          []string               `json:"agents,omitempty"`
	WorkCodes       []string               `json:"workCodes,omitempty"`
	Direction       string                 `json:"direction,omitempty" validate:"omitempty,oneof=inbound outbound"`
	MinCallDuration int                    `json:"minCallDuration,omitempty" validate:"omitempty,gte=0"`
	Channels        []string               `json:"channels,omitempty"`
	DateWindow      schedmodels.DateWindow `json:"dateWindow,omitempty"`
}

// ScheduleConfigInput body của PUT /scheduler-config/:profileId.
// CronExpression được validate bằng parser 5 trường trước khi kích hoạt.
type ScheduleConfigInput struct {
	Enabled           bool   `json:"enabled"`
	CronExpression    string `json:"cronExpression" validate:"omitempty,cron"`
	MaxEvaluations    int    `json:"maxEvaluations" validate:"omitempty,gte=0"`
	EvaluatorIdentity string `json:"evaluatorIdentity,omitempty" validate:"omitempty,no_xss"`
}

// SchedulerRunInput body của POST /scheduler-run/:profileId.
type SchedulerRunInput struct {
	MaxEvaluations int `json:"maxEvaluations" validate:"omitempty,gte=0"`
}

// SchedulerRunResult kết quả trả về của một lần chạy thủ công.
type SchedulerRunResult struct {
	InteractionsFound     int      `json:"interactionsFound"`
	InteractionsProcessed int      `json:"interactionsProcessed"`
	JobIDs                []string `json:"jobIds"`
	Status                string   `json:"status"`
	Error                 string   `json:"error,omitempty"`
}
