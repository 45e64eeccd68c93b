package interactionsvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	schedmodels "qa_center/internal/api/schedule/models"
)

func TestBuildMatchFilter_DefaultWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	profile := &schedmodels.SelectionProfile{}

	filter := BuildMatchFilter(profile, MatchOptions{}, now)

	startedAt, ok := filter["startedAt"].(bson.M)
	require.True(t, ok, "thiếu điều kiện startedAt khi profile không khai báo dateWindow")
	assert.Equal(t, now.Add(-24*time.Hour).UnixMilli(), startedAt["$gte"])
	assert.NotContains(t, startedAt, "$lte")
}

func TestBuildMatchFilter_ExplicitWindow(t *testing.T) {
	now := time.Now()
	profile := &schedmodels.SelectionProfile{
		DateWindow: schedmodels.DateWindow{From: 1000, To: 2000},
	}

	filter := BuildMatchFilter(profile, MatchOptions{}, now)

	startedAt := filter["startedAt"].(bson.M)
	assert.Equal(t, int64(1000), startedAt["$gte"])
	assert.Equal(t, int64(2000), startedAt["$lte"])
}

func TestBuildMatchFilter_CriteriaFields(t *testing.T) {
	profile := &schedmodels.SelectionProfile{
		Direction:       "inbound",
		Agents:          []string{"101", "agent-a"},
		WorkCodes:       []string{"complaint"},
		MinCallDuration: 30,
		Channels:        []string{"voice", "chat"},
	}

	filter := BuildMatchFilter(profile, MatchOptions{}, time.Now())

	assert.Equal(t, "inbound", filter["direction"])

	// Agent id sinh cả biến thể số cho id dạng chữ số
	agentIn := filter["agentId"].(bson.M)["$in"].([]interface{})
	assert.Contains(t, agentIn, "101")
	assert.Contains(t, agentIn, 101)
	assert.Contains(t, agentIn, "agent-a")
	assert.NotContains(t, agentIn, 0)

	assert.Equal(t, bson.M{"$in": []string{"complaint"}}, filter["workCodes"])
	assert.Equal(t, bson.M{"$gte": 30}, filter["duration"])
	assert.Equal(t, bson.M{"$in": []string{"voice", "chat"}}, filter["channel"])
}

func TestBuildMatchFilter_QueueMatchesIdOrName(t *testing.T) {
	profile := &schedmodels.SelectionProfile{
		Queues: []string{"support", "sales"},
	}

	filter := BuildMatchFilter(profile, MatchOptions{}, time.Now())

	andClauses, ok := filter["$and"].([]bson.M)
	require.True(t, ok)

	var queueClause bson.M
	for _, clause := range andClauses {
		if or, ok := clause["$or"].([]bson.M); ok && len(or) == 2 {
			if _, hasQueueID := or[0]["queueId"]; hasQueueID {
				queueClause = clause
			}
		}
	}
	require.NotNil(t, queueClause, "thiếu điều kiện queue id-hoặc-name")
}

func TestBuildMatchFilter_ContentRequirement(t *testing.T) {
	filter := BuildMatchFilter(&schedmodels.SelectionProfile{}, MatchOptions{}, time.Now())

	andClauses, ok := filter["$and"].([]bson.M)
	require.True(t, ok, "điều kiện tồn tại nội dung phải luôn có mặt")

	found := false
	for _, clause := range andClauses {
		or, ok := clause["$or"].([]bson.M)
		if !ok {
			continue
		}
		for _, branch := range or {
			if _, hasRecording := branch["recordingPath"]; hasRecording {
				found = true
			}
		}
	}
	assert.True(t, found, "nhánh voice phải yêu cầu recordingPath")
}

func TestBuildMatchFilter_ExcludeEvaluated(t *testing.T) {
	profile := &schedmodels.SelectionProfile{}

	with := BuildMatchFilter(profile, MatchOptions{ExcludeEvaluated: true}, time.Now())
	assert.Equal(t, bson.M{"$ne": true}, with["isEvaluated"])

	without := BuildMatchFilter(profile, MatchOptions{}, time.Now())
	assert.NotContains(t, without, "isEvaluated")
}

func TestAgentIDVariants(t *testing.T) {
	variants := agentIDVariants([]string{"7", "", "agent-x"})
	assert.ElementsMatch(t, []interface{}{"7", 7, "agent-x"}, variants)
}
