// Package models - SchedulerHistoryEntry (qa_scheduler_history).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái của một lần chạy scheduler
const (
	RunStatusSuccess = "success" // Mọi interaction tìm thấy đều đã vào queue
	RunStatusPartial = "partial" // Một phần bị skip hoặc submit lỗi
	RunStatusFailed  = "failed"  // Run lỗi trước khi queue được job nào
)

// Nguồn kích hoạt một lần chạy
const (
	TriggerCron   = "cron"
	TriggerManual = "manual"
)

// SchedulerHistoryEntry một dòng audit append-only cho mỗi lần chạy scheduler.
type SchedulerHistoryEntry struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	ProfileID             primitive.ObjectID `json:"profileId" bson:"profileId" index:"single:1"`
	StartTime             int64              `json:"startTime" bson:"startTime"`
	EndTime               int64              `json:"endTime" bson:"endTime"`
	Status                string             `json:"status" bson:"status"`
	InteractionsFound     int                `json:"interactionsFound" bson:"interactionsFound"`
	InteractionsProcessed int                `json:"interactionsProcessed" bson:"interactionsProcessed"`
	JobIDs                []string           `json:"jobIds,omitempty" bson:"jobIds,omitempty"`
	Error                 string             `json:"error,omitempty" bson:"error,omitempty"`
	Trigger               string             `json:"trigger" bson:"trigger"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
