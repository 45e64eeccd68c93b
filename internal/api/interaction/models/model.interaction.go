// Package models - Interaction thuộc domain đánh giá chất lượng (qa_interactions).
// Bản ghi tương tác voice/text do hệ thống tổng đài đổ về, đầu vào của matcher.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các kênh tương tác hỗ trợ. Họ text được ưu tiên chấm trước họ voice.
var (
	VoiceChannels = []string{"voice", "call", "callback"}
	TextChannels  = []string{"chat", "email", "sms", "text"}
)

// IsTextChannel báo kênh thuộc họ text (chat/email/sms).
func IsTextChannel(channel string) bool {
	for _, ch := range TextChannels {
		if ch == channel {
			return true
		}
	}
	return false
}

// Interaction lưu một tương tác của agent với khách (qa_interactions).
type Interaction struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	AgentID       string   `json:"agentId" bson:"agentId"`
	AgentName     string   `json:"agentName,omitempty" bson:"agentName,omitempty"`
	QueueID       string   `json:"queueId,omitempty" bson:"queueId,omitempty"`
	QueueName     string   `json:"queueName,omitempty" bson:"queueName,omitempty"`
	WorkCodes     []string `json:"workCodes,omitempty" bson:"workCodes,omitempty"`
	Direction     string   `json:"direction,omitempty" bson:"direction,omitempty"` // inbound | outbound
	Duration      int      `json:"duration,omitempty" bson:"duration,omitempty"`   // giây
	Channel       string   `json:"channel" bson:"channel"`
	RecordingPath string   `json:"recordingPath,omitempty" bson:"recordingPath,omitempty"`
	MessageCount  int      `json:"messageCount,omitempty" bson:"messageCount,omitempty"`
	StartedAt     int64    `json:"startedAt" bson:"startedAt"`
	IsEvaluated   bool     `json:"isEvaluated" bson:"isEvaluated"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// HasRequiredContent kiểm tra tương tác có nội dung chấm được không:
// kênh voice cần recordingPath, kênh text cần ít nhất một message.
func (i *Interaction) HasRequiredContent() bool {
	if IsTextChannel(i.Channel) {
		return i.MessageCount >= 1
	}
	return i.RecordingPath != ""
}
