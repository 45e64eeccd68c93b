// Package models - SelectionProfile thuộc domain lập lịch đánh giá (qa_selection_profiles).
// Một profile lưu bộ lọc chọn interaction kèm cấu hình lịch chạy định kỳ.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateWindow khoảng thời gian chọn interaction (UnixMilli). Zero = không giới hạn.
type DateWindow struct {
	From int64 `json:"from,omitempty" bson:"from,omitempty"`
	To   int64 `json:"to,omitempty" bson:"to,omitempty"`
}

// IsZero báo profile không khai báo khoảng thời gian tường minh.
func (w DateWindow) IsZero() bool {
	return w.From == 0 && w.To == 0
}

// ScheduleConfig cấu hình lịch chạy định kỳ nhúng trong SelectionProfile.
type ScheduleConfig struct {
	Enabled           bool   `json:"enabled" bson:"enabled"`
	CronExpression    string `json:"cronExpression" bson:"cronExpression"`
	MaxEvaluations    int    `json:"maxEvaluations" bson:"maxEvaluations"`
	EvaluatorIdentity string `json:"evaluatorIdentity" bson:"evaluatorIdentity"`
}

// SelectionProfile lưu bộ lọc chọn interaction để đánh giá tự động (qa_selection_profiles).
type SelectionProfile struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	Name             string             `json:"name" bson:"name" index:"single:1"`
	Queues           []string           `json:"queues,omitempty" bson:"queues,omitempty"`
	Agents           []string           `json:"agents,omitempty" bson:"agents,omitempty"`
	WorkCodes        []string           `json:"workCodes,omitempty" bson:"workCodes,omitempty"`
	Direction        string             `json:"direction,omitempty" bson:"direction,omitempty"`
	MinCallDuration  int                `json:"minCallDuration,omitempty" bson:"minCallDuration,omitempty"`
	Channels         []string           `json:"channels,omitempty" bson:"channels,omitempty"`
	DateWindow       DateWindow         `json:"dateWindow,omitempty" bson:"dateWindow,omitempty"`
	EvaluationFormID primitive.ObjectID `json:"evaluationFormId" bson:"evaluationFormId"`
	Schedule         ScheduleConfig     `json:"schedule" bson:"schedule"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
