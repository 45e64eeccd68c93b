package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScoreResponse_PlainArray(t *testing.T) {
	raw := `[{"name": "greeting", "score": 5, "explanation": "Chào hỏi đầy đủ", "confidence": 0.95}]`

	results, err := parseScoreResponse(raw)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "greeting", results[0].Name)
	assert.Equal(t, float64(5), results[0].Score)
	assert.Equal(t, 0.95, results[0].Confidence)
}

func TestParseScoreResponse_MarkdownFence(t *testing.T) {
	raw := "```json\n[{\"name\": \"greeting\", \"score\": -1, \"explanation\": \"Không áp dụng\", \"confidence\": 1}]\n```"

	results, err := parseScoreResponse(raw)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, float64(-1), results[0].Score)
}

func TestParseScoreResponse_Invalid(t *testing.T) {
	_, err := parseScoreResponse("xin lỗi, tôi không chấm được")
	assert.Error(t, err)
}
