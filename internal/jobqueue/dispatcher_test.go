package jobqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	evalmodels "qa_center/internal/api/evaluation/models"
	interactionmodels "qa_center/internal/api/interaction/models"
	rubricmodels "qa_center/internal/api/rubric/models"
	"qa_center/internal/llm"
)

// Fake cho từng phụ thuộc của dispatcher, ghi lại các lời gọi để assert.

type fakeJobStore struct {
	completed   []primitive.ObjectID
	failed      []JobRecord
	failCauses  []error
	markFailErr error
}

func (f *fakeJobStore) ClaimNext(ctx context.Context, now time.Time) (JobRecord, error) {
	return JobRecord{}, errors.New("không dùng trong test execute")
}

func (f *fakeJobStore) MarkCompleted(ctx context.Context, id primitive.ObjectID) error {
	f.completed = append(f.completed, id)
	return nil
}

func (f *fakeJobStore) MarkFailed(ctx context.Context, job JobRecord, cause error, backoffBase time.Duration) error {
	f.failed = append(f.failed, job)
	f.failCauses = append(f.failCauses, cause)
	return f.markFailErr
}

func (f *fakeJobStore) PruneCompleted(ctx context.Context, retention time.Duration) (int64, error) {
	return 0, nil
}

type fakeEvaluationWriter struct {
	created []evalmodels.Evaluation
	err     error
}

func (f *fakeEvaluationWriter) CreateFromAI(ctx context.Context, eval evalmodels.Evaluation) (evalmodels.Evaluation, error) {
	if f.err != nil {
		return evalmodels.Evaluation{}, f.err
	}
	eval.ID = primitive.NewObjectID()
	eval.Status = evalmodels.StatusCompleted
	f.created = append(f.created, eval)
	return eval, nil
}

type fakeInteractionStore struct {
	interaction interactionmodels.Interaction
	findErr     error
	evaluated   []primitive.ObjectID
}

func (f *fakeInteractionStore) FindOneById(ctx context.Context, id primitive.ObjectID) (interactionmodels.Interaction, error) {
	if f.findErr != nil {
		return interactionmodels.Interaction{}, f.findErr
	}
	return f.interaction, nil
}

func (f *fakeInteractionStore) MarkEvaluated(ctx context.Context, id primitive.ObjectID) error {
	f.evaluated = append(f.evaluated, id)
	return nil
}

type fakeRubricReader struct {
	rubric rubricmodels.Rubric
	err    error
}

func (f *fakeRubricReader) FindOneById(ctx context.Context, id primitive.ObjectID) (rubricmodels.Rubric, error) {
	if f.err != nil {
		return rubricmodels.Rubric{}, f.err
	}
	return f.rubric, nil
}

type fakeScorer struct {
	results []llm.ParameterResult
	err     error
	calls   int
}

func (f *fakeScorer) Score(ctx context.Context, interaction *interactionmodels.Interaction, rubric *rubricmodels.Rubric) ([]llm.ParameterResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func newTestDispatcher(jobs *fakeJobStore, scorer *fakeScorer, evals *fakeEvaluationWriter, interactions *fakeInteractionStore, rubrics *fakeRubricReader) *Dispatcher {
	opts := Options{}
	opts.normalize()
	return &Dispatcher{
		jobs:         jobs,
		scorer:       scorer,
		evaluations:  evals,
		interactions: interactions,
		rubrics:      rubrics,
		opts:         opts,
		limiter:      newScoringLimiter(opts.MaxConcurrent, opts.Window),
	}
}

func testJob() JobRecord {
	return JobRecord{
		ID:            primitive.NewObjectID(),
		InteractionID: primitive.NewObjectID(),
		RubricID:      primitive.NewObjectID(),
		AgentID:       "101",
		Channel:       "chat",
		Attempts:      1,
		MaxAttempts:   3,
	}
}

func TestDispatcherExecute_SuccessSavesEvaluation(t *testing.T) {
	jobs := &fakeJobStore{}
	scorer := &fakeScorer{results: []llm.ParameterResult{
		{Name: "Chào hỏi đúng chuẩn", Score: 5, Explanation: "Agent chào đúng kịch bản", Confidence: 0.9},
		{Name: "Xác minh thông tin", Score: 0, Explanation: "Không xác minh số hợp đồng", Confidence: 0.8},
	}}
	evals := &fakeEvaluationWriter{}
	interactions := &fakeInteractionStore{interaction: interactionmodels.Interaction{
		AgentID:      "101",
		AgentName:    "Nguyễn Văn A",
		Channel:      "chat",
		MessageCount: 4,
	}}
	rubrics := &fakeRubricReader{}

	d := newTestDispatcher(jobs, scorer, evals, interactions, rubrics)
	job := testJob()
	d.execute(context.Background(), job)

	// Đánh giá được lưu với đủ kết quả AI và danh tính agent từ tương tác
	require.Len(t, evals.created, 1)
	created := evals.created[0]
	assert.Equal(t, job.InteractionID, created.InteractionID)
	assert.Equal(t, job.RubricID, created.RubricID)
	assert.Equal(t, "Nguyễn Văn A", created.AgentName)
	require.Len(t, created.Parameters, 2)
	assert.Equal(t, "Chào hỏi đúng chuẩn", created.Parameters[0].Name)
	assert.Equal(t, 5.0, created.Parameters[0].Score)

	// Tương tác được đánh dấu đã đánh giá, job chuyển completed
	assert.Equal(t, []primitive.ObjectID{job.InteractionID}, interactions.evaluated)
	assert.Equal(t, []primitive.ObjectID{job.ID}, jobs.completed)
	assert.Empty(t, jobs.failed)
}

func TestDispatcherExecute_ScorerErrorMarksFailed(t *testing.T) {
	jobs := &fakeJobStore{}
	scorer := &fakeScorer{err: errors.New("API quá tải")}
	evals := &fakeEvaluationWriter{}
	interactions := &fakeInteractionStore{interaction: interactionmodels.Interaction{
		AgentID: "101", Channel: "chat", MessageCount: 2,
	}}
	rubrics := &fakeRubricReader{}

	d := newTestDispatcher(jobs, scorer, evals, interactions, rubrics)
	job := testJob()
	d.execute(context.Background(), job)

	// Chấm lỗi: job bị ghi nhận thất bại, KHÔNG lưu đánh giá,
	// KHÔNG đánh dấu tương tác, KHÔNG chuyển completed
	require.Len(t, jobs.failed, 1)
	assert.Equal(t, job.ID, jobs.failed[0].ID)
	assert.ErrorContains(t, jobs.failCauses[0], "API quá tải")
	assert.Empty(t, evals.created)
	assert.Empty(t, interactions.evaluated)
	assert.Empty(t, jobs.completed)
}

func TestDispatcherExecute_MissingInteractionMarksFailed(t *testing.T) {
	jobs := &fakeJobStore{}
	scorer := &fakeScorer{}
	interactions := &fakeInteractionStore{findErr: errors.New("không tìm thấy document")}

	d := newTestDispatcher(jobs, scorer, &fakeEvaluationWriter{}, interactions, &fakeRubricReader{})
	d.execute(context.Background(), testJob())

	require.Len(t, jobs.failed, 1)
	assert.Zero(t, scorer.calls, "không được gọi scorer khi tương tác không load được")
}

func TestDispatcherExecute_SaveErrorMarksFailed(t *testing.T) {
	jobs := &fakeJobStore{}
	scorer := &fakeScorer{results: []llm.ParameterResult{{Name: "Chào hỏi", Score: 5}}}
	evals := &fakeEvaluationWriter{err: errors.New("mất kết nối mongo")}
	interactions := &fakeInteractionStore{interaction: interactionmodels.Interaction{
		AgentID: "101", Channel: "chat", MessageCount: 2,
	}}

	d := newTestDispatcher(jobs, scorer, evals, interactions, &fakeRubricReader{})
	job := testJob()
	d.execute(context.Background(), job)

	require.Len(t, jobs.failed, 1)
	assert.ErrorContains(t, jobs.failCauses[0], "mất kết nối mongo")
	assert.Empty(t, interactions.evaluated)
	assert.Empty(t, jobs.completed)
}
