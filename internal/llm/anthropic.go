package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	interactionmodels "qa_center/internal/api/interaction/models"
	rubricmodels "qa_center/internal/api/rubric/models"
	"qa_center/internal/logger"
)

const scoringSystemPrompt = `Bạn là chuyên viên đánh giá chất lượng (QA) của contact center.
Nhiệm vụ: chấm điểm một tương tác theo bộ tiêu chí được cung cấp.

Quy tắc chấm:
- Với tiêu chí loại "binary": chấm 0 hoặc đúng điểm tối đa.
- Với tiêu chí loại "variable": chấm bất kỳ giá trị nào từ 0 đến điểm tối đa.
- Nếu tiêu chí không áp dụng được cho tương tác này, chấm -1.
- Mỗi tiêu chí kèm giải thích ngắn gọn bằng tiếng Việt và độ tin cậy từ 0 đến 1.

Trả lời CHỈ bằng một mảng JSON, không kèm văn bản nào khác, theo dạng:
[{"name": "...", "score": 0, "explanation": "...", "confidence": 0.9}]`

// AnthropicScorer gọi Anthropic Messages API để chấm điểm tương tác.
type AnthropicScorer struct {
	client anthropic.Client
	model  string
}

// NewAnthropicScorer tạo scorer dùng Anthropic với API key và model đã cấu hình.
func NewAnthropicScorer(apiKey, model string) *AnthropicScorer {
	return &AnthropicScorer{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Score gửi thông tin tương tác + bộ tiêu chí lên model và parse mảng JSON trả về.
func (s *AnthropicScorer) Score(ctx context.Context, interaction *interactionmodels.Interaction, rubric *rubricmodels.Rubric) ([]ParameterResult, error) {
	userPrompt := buildUserPrompt(interaction, rubric)

	message, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: scoringSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gọi Anthropic API thất bại: %w", err)
	}

	var raw string
	for _, block := range message.Content {
		if block.Type == "text" {
			raw = block.Text
			break
		}
	}
	if raw == "" {
		return nil, fmt.Errorf("phản hồi Anthropic không chứa text block")
	}

	results, err := parseScoreResponse(raw)
	if err != nil {
		return nil, err
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"interactionId": interaction.ID.Hex(),
		"rubricId":      rubric.ID.Hex(),
		"parameters":    len(results),
	}).Info("🧮 [SCORING] Model đã chấm xong tương tác")

	return results, nil
}

// buildUserPrompt dựng prompt mô tả tương tác và liệt kê tiêu chí cần chấm.
func buildUserPrompt(interaction *interactionmodels.Interaction, rubric *rubricmodels.Rubric) string {
	var b strings.Builder

	b.WriteString("## Thông tin tương tác\n")
	fmt.Fprintf(&b, "- Agent: %s (%s)\n", interaction.AgentName, interaction.AgentID)
	fmt.Fprintf(&b, "- Queue: %s\n", interaction.QueueName)
	fmt.Fprintf(&b, "- Hướng: %s\n", interaction.Direction)
	fmt.Fprintf(&b, "- Kênh: %s\n", interaction.Channel)
	fmt.Fprintf(&b, "- Thời lượng: %d giây\n", interaction.Duration)
	if interactionmodels.IsTextChannel(interaction.Channel) {
		fmt.Fprintf(&b, "- Số tin nhắn: %d\n", interaction.MessageCount)
	} else {
		fmt.Fprintf(&b, "- File ghi âm: %s\n", interaction.RecordingPath)
	}

	b.WriteString("\n## Bộ tiêu chí\n")
	for _, p := range rubric.Parameters {
		fmt.Fprintf(&b, "- name=%q, nhóm=%q, điểm tối đa=%.0f, loại=%s\n",
			p.Name, rubric.GroupName(p.Group), p.MaxScore, p.ScoringType)
	}

	b.WriteString("\nChấm điểm tất cả tiêu chí trên và trả về mảng JSON.")
	return b.String()
}

// parseScoreResponse bóc mảng JSON khỏi phản hồi, chấp nhận cả khi model
// bọc trong code fence markdown.
func parseScoreResponse(raw string) ([]ParameterResult, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var results []ParameterResult
	if err := json.Unmarshal([]byte(cleaned), &results); err != nil {
		return nil, fmt.Errorf("parse phản hồi chấm điểm thất bại: %w", err)
	}
	return results, nil
}
