package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	interactionmodels "qa_center/internal/api/interaction/models"
	interactionsvc "qa_center/internal/api/interaction/service"
	schedmodels "qa_center/internal/api/schedule/models"
	"qa_center/internal/common"
	"qa_center/internal/jobqueue"
)

// Fake cho từng phụ thuộc của scheduler, ghi lại các lời gọi để assert.

type fakeProfileStore struct {
	profile schedmodels.SelectionProfile
	err     error
}

func (f *fakeProfileStore) FindOneById(ctx context.Context, id primitive.ObjectID) (schedmodels.SelectionProfile, error) {
	if f.err != nil {
		return schedmodels.SelectionProfile{}, f.err
	}
	return f.profile, nil
}

func (f *fakeProfileStore) FindEnabledProfiles(ctx context.Context) ([]schedmodels.SelectionProfile, error) {
	return nil, nil
}

func (f *fakeProfileStore) UpdateScheduleConfig(ctx context.Context, id primitive.ObjectID, cfg schedmodels.ScheduleConfig) (*schedmodels.SelectionProfile, error) {
	return nil, nil
}

type fakeMatcher struct {
	matched []interactionmodels.Interaction
	err     error
	opts    interactionsvc.MatchOptions
}

func (f *fakeMatcher) Match(ctx context.Context, profile *schedmodels.SelectionProfile, opts interactionsvc.MatchOptions) ([]interactionmodels.Interaction, error) {
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.matched, nil
}

type fakeHistory struct {
	entries []schedmodels.SchedulerHistoryEntry
}

func (f *fakeHistory) Append(ctx context.Context, entry schedmodels.SchedulerHistoryEntry) (schedmodels.SchedulerHistoryEntry, error) {
	f.entries = append(f.entries, entry)
	return entry, nil
}

type fakeSubmitter struct {
	submitted []jobqueue.JobRecord
	// conflictOn: tương tác đã có job đang chờ, Submit trả 409
	conflictOn map[primitive.ObjectID]bool
}

func (f *fakeSubmitter) Submit(ctx context.Context, job jobqueue.JobRecord) (jobqueue.JobRecord, error) {
	if f.conflictOn[job.InteractionID] {
		return jobqueue.JobRecord{}, common.NewError(
			common.ErrCodeJobQueue,
			fmt.Sprintf("Tương tác %s đã có job chấm điểm đang chờ hoặc đang chạy", job.InteractionID.Hex()),
			common.StatusConflict,
			nil,
		)
	}
	job.ID = primitive.NewObjectID()
	job.Status = jobqueue.JobStatusWaiting
	f.submitted = append(f.submitted, job)
	return job, nil
}

func newTestScheduler(profiles *fakeProfileStore, matcher *fakeMatcher, history *fakeHistory, jobs *fakeSubmitter) *Scheduler {
	return &Scheduler{
		profiles:     profiles,
		history:      history,
		interactions: matcher,
		jobs:         jobs,
	}
}

func testProfile(maxEvaluations int) schedmodels.SelectionProfile {
	return schedmodels.SelectionProfile{
		ID:               primitive.NewObjectID(),
		Name:             "Hợp đồng quá hạn",
		EvaluationFormID: primitive.NewObjectID(),
		Schedule: schedmodels.ScheduleConfig{
			MaxEvaluations:    maxEvaluations,
			EvaluatorIdentity: "AI Thu Hà",
		},
	}
}

func chatInteractions(n int) []interactionmodels.Interaction {
	out := make([]interactionmodels.Interaction, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, interactionmodels.Interaction{
			ID:           primitive.NewObjectID(),
			AgentID:      fmt.Sprintf("10%d", i),
			Channel:      "chat",
			MessageCount: 3,
		})
	}
	return out
}

func TestRunProfile_CapTruncationReportsPartial(t *testing.T) {
	profile := testProfile(10)
	matcher := &fakeMatcher{matched: chatInteractions(12)}
	history := &fakeHistory{}
	jobs := &fakeSubmitter{}
	s := newTestScheduler(&fakeProfileStore{profile: profile}, matcher, history, jobs)

	result, err := s.RunProfile(context.Background(), profile.ID, 0, schedmodels.TriggerCron)

	require.NoError(t, err)
	// Found đếm đủ số tương tác đủ điều kiện, cap chỉ giới hạn số job submit
	assert.Equal(t, 12, result.InteractionsFound)
	assert.Equal(t, 10, result.InteractionsProcessed)
	assert.Equal(t, schedmodels.RunStatusPartial, result.Status)
	assert.Len(t, jobs.submitted, 10)

	// Match không được cắt danh sách theo cap
	assert.Zero(t, matcher.opts.Limit)
	assert.True(t, matcher.opts.ExcludeEvaluated)

	// History ghi đúng con số của lượt chạy
	require.Len(t, history.entries, 1)
	entry := history.entries[0]
	assert.Equal(t, profile.ID, entry.ProfileID)
	assert.Equal(t, 12, entry.InteractionsFound)
	assert.Equal(t, 10, entry.InteractionsProcessed)
	assert.Equal(t, schedmodels.RunStatusPartial, entry.Status)
	assert.Equal(t, schedmodels.TriggerCron, entry.Trigger)
	assert.Len(t, entry.JobIDs, 10)
}

func TestRunProfile_AllSubmittedReportsSuccess(t *testing.T) {
	profile := testProfile(10)
	matcher := &fakeMatcher{matched: chatInteractions(4)}
	history := &fakeHistory{}
	jobs := &fakeSubmitter{}
	s := newTestScheduler(&fakeProfileStore{profile: profile}, matcher, history, jobs)

	result, err := s.RunProfile(context.Background(), profile.ID, 0, schedmodels.TriggerManual)

	require.NoError(t, err)
	assert.Equal(t, 4, result.InteractionsFound)
	assert.Equal(t, 4, result.InteractionsProcessed)
	assert.Equal(t, schedmodels.RunStatusSuccess, result.Status)

	// Job mang danh tính evaluator và rubric từ profile
	require.Len(t, jobs.submitted, 4)
	assert.Equal(t, profile.EvaluationFormID, jobs.submitted[0].RubricID)
	assert.Equal(t, "AI Thu Hà", jobs.submitted[0].EvaluatorIdentity)

	require.Len(t, history.entries, 1)
	assert.Equal(t, schedmodels.RunStatusSuccess, history.entries[0].Status)
	assert.Equal(t, schedmodels.TriggerManual, history.entries[0].Trigger)
}

func TestRunProfile_ExplicitMaxOverridesProfile(t *testing.T) {
	profile := testProfile(10)
	matcher := &fakeMatcher{matched: chatInteractions(5)}
	jobs := &fakeSubmitter{}
	s := newTestScheduler(&fakeProfileStore{profile: profile}, matcher, &fakeHistory{}, jobs)

	result, err := s.RunProfile(context.Background(), profile.ID, 2, schedmodels.TriggerManual)

	require.NoError(t, err)
	assert.Equal(t, 5, result.InteractionsFound)
	assert.Equal(t, 2, result.InteractionsProcessed)
	assert.Equal(t, schedmodels.RunStatusPartial, result.Status)
}

func TestRunProfile_MatcherErrorRecordsFailedRun(t *testing.T) {
	profile := testProfile(10)
	matcher := &fakeMatcher{err: errors.New("mất kết nối mongo")}
	history := &fakeHistory{}
	jobs := &fakeSubmitter{}
	s := newTestScheduler(&fakeProfileStore{profile: profile}, matcher, history, jobs)

	result, err := s.RunProfile(context.Background(), profile.ID, 0, schedmodels.TriggerCron)

	require.Nil(t, result)
	var appErr *common.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.ErrCodeSchedulerRun, appErr.Code)

	// Lượt chạy lỗi vẫn để lại dấu vết trong history
	require.Len(t, history.entries, 1)
	entry := history.entries[0]
	assert.Equal(t, schedmodels.RunStatusFailed, entry.Status)
	assert.Contains(t, entry.Error, "mất kết nối mongo")
	assert.Empty(t, jobs.submitted)
}

func TestRunProfile_DuplicateJobSkippedAsPartial(t *testing.T) {
	profile := testProfile(10)
	matched := chatInteractions(3)
	matcher := &fakeMatcher{matched: matched}
	history := &fakeHistory{}
	jobs := &fakeSubmitter{conflictOn: map[primitive.ObjectID]bool{matched[1].ID: true}}
	s := newTestScheduler(&fakeProfileStore{profile: profile}, matcher, history, jobs)

	result, err := s.RunProfile(context.Background(), profile.ID, 0, schedmodels.TriggerCron)

	require.NoError(t, err)
	// Tương tác đã có job đang chờ bị bỏ qua, không tạo job thứ hai
	assert.Equal(t, 3, result.InteractionsFound)
	assert.Equal(t, 2, result.InteractionsProcessed)
	assert.Equal(t, schedmodels.RunStatusPartial, result.Status)
	require.Len(t, jobs.submitted, 2)
	for _, job := range jobs.submitted {
		assert.NotEqual(t, matched[1].ID, job.InteractionID)
	}
}

func TestRunProfile_SkipsInteractionWithoutContent(t *testing.T) {
	profile := testProfile(10)
	matched := chatInteractions(2)
	matched[1].MessageCount = 0 // kênh chat không có message nào thì không chấm được
	matcher := &fakeMatcher{matched: matched}
	jobs := &fakeSubmitter{}
	s := newTestScheduler(&fakeProfileStore{profile: profile}, matcher, &fakeHistory{}, jobs)

	result, err := s.RunProfile(context.Background(), profile.ID, 0, schedmodels.TriggerManual)

	require.NoError(t, err)
	assert.Equal(t, 2, result.InteractionsFound)
	assert.Equal(t, 1, result.InteractionsProcessed)
	assert.Equal(t, schedmodels.RunStatusPartial, result.Status)
}

func TestRunProfile_ProfileNotFound(t *testing.T) {
	s := newTestScheduler(&fakeProfileStore{err: common.ErrNotFound}, &fakeMatcher{}, &fakeHistory{}, &fakeSubmitter{})

	result, err := s.RunProfile(context.Background(), primitive.NewObjectID(), 0, schedmodels.TriggerManual)

	require.Nil(t, result)
	var appErr *common.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.StatusNotFound, appErr.StatusCode)
}
