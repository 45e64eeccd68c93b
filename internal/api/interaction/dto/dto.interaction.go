// Package dto - DTO cho domain interaction.
package dto

// InteractionCreateInput dữ liệu ghi nhận một tương tác (ops feed).
type InteractionCreateInput struct {
	AgentID       string   `json:"agentId" validate:"required"`
	AgentName     string   `json:"agentName,omitempty" validate:"omitempty,no_xss"`
	QueueID       string   `json:"queueId,omitempty"`
	QueueName     string   `json:"queueName,omitempty" validate:"omitempty,no_xss"`
	WorkCodes     []string `json:"workCodes,omitempty"`
	Direction     string   `json:"direction,omitempty" validate:"omitempty,oneof=inbound outbound"`
	Duration      int      `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Channel       string   `json:"channel" validate:"required"`
	RecordingPath string   `json:"recordingPath,omitempty"`
	MessageCount  int      `json:"messageCount,omitempty" validate:"omitempty,gte=0"`
	StartedAt     int64    `json:"startedAt" validate:"required"`
}

// InteractionUpdateInput dữ liệu cập nhật một tương tác.
type InteractionUpdateInput struct {
	AgentName     string   `json:"agentName,omitempty" validate:"omitempty,no_xss"`
	QueueID       string   `json:"queueId,omitempty"`
	QueueName     string   `json:"queueName,omitempty" validate:"omitempty,no_xss"`
	WorkCodes     []string `json:"workCodes,omitempty"`
	Direction     string   `json:"direction,omitempty" validate:"omitempty,oneof=inbound outbound"`
	Duration      int      `json:"duration,omitempty" validate:"omitempty,gte=0"`
	RecordingPath string   `json:"recordingPath,omitempty"`
	MessageCount  int      `json:"messageCount,omitempty" validate:"omitempty,gte=0"`
}
