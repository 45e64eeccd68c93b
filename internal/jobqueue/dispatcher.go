package jobqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/time/rate"

	evalmodels "qa_center/internal/api/evaluation/models"
	evalsvc "qa_center/internal/api/evaluation/service"
	interactionmodels "qa_center/internal/api/interaction/models"
	interactionsvc "qa_center/internal/api/interaction/service"
	rubricmodels "qa_center/internal/api/rubric/models"
	rubricsvc "qa_center/internal/api/rubric/service"
	"qa_center/internal/common"
	"qa_center/internal/llm"
	"qa_center/internal/logger"
)

// Options tham số vận hành của dispatcher, map từ các biến QUEUE_* trong config.
type Options struct {
	MaxConcurrent int           // Số job tối đa bắt đầu trong một window
	Window        time.Duration // Độ dài window nạp lại token
	MaxAttempts   int           // Số lần thử tối đa cho một job
	BackoffBase   time.Duration // Backoff cơ sở, nhân đôi mỗi lần thất bại
	Retention     time.Duration // Thời gian giữ job completed trước khi prune
	PollInterval  time.Duration // Khoảng nghỉ khi hàng đợi trống
}

// normalize điền giá trị mặc định cho các tham số chưa khai báo.
func (o *Options) normalize() {
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 5
	}
	if o.Window <= 0 {
		o.Window = 5 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = 5 * time.Second
	}
	if o.Retention <= 0 {
		o.Retention = 24 * time.Hour
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 2 * time.Second
	}
}

// Các interface hẹp cho từng phụ thuộc của dispatcher — JobService và các
// service Mongo thỏa mãn sẵn, test thay bằng fake.
type jobStore interface {
	ClaimNext(ctx context.Context, now time.Time) (JobRecord, error)
	MarkCompleted(ctx context.Context, id primitive.ObjectID) error
	MarkFailed(ctx context.Context, job JobRecord, cause error, backoffBase time.Duration) error
	PruneCompleted(ctx context.Context, retention time.Duration) (int64, error)
}

type evaluationWriter interface {
	CreateFromAI(ctx context.Context, eval evalmodels.Evaluation) (evalmodels.Evaluation, error)
}

type interactionStore interface {
	FindOneById(ctx context.Context, id primitive.ObjectID) (interactionmodels.Interaction, error)
	MarkEvaluated(ctx context.Context, id primitive.ObjectID) error
}

type rubricReader interface {
	FindOneById(ctx context.Context, id primitive.ObjectID) (rubricmodels.Rubric, error)
}

// Dispatcher vòng lặp lấy job waiting theo ưu tiên, chấm bằng Scorer và lưu
// đánh giá. Mỗi job chạy trong goroutine riêng; tốc độ bắt đầu job bị chặn
// bởi token bucket (rate.Limiter).
type Dispatcher struct {
	jobSvc       *JobService
	jobs         jobStore
	scorer       llm.Scorer
	evaluations  evaluationWriter
	interactions interactionStore
	rubrics      rubricReader
	opts         Options
	limiter      *rate.Limiter
	wg           sync.WaitGroup
}

// NewDispatcher tạo dispatcher với scorer được inject (test dùng scorer giả).
func NewDispatcher(scorer llm.Scorer, opts Options) (*Dispatcher, error) {
	opts.normalize()

	jobs, err := NewJobService()
	if err != nil {
		return nil, fmt.Errorf("tạo JobService: %w", err)
	}
	evaluations, err := evalsvc.NewEvaluationService()
	if err != nil {
		return nil, fmt.Errorf("tạo EvaluationService: %w", err)
	}
	interactions, err := interactionsvc.NewInteractionService()
	if err != nil {
		return nil, fmt.Errorf("tạo InteractionService: %w", err)
	}
	rubrics, err := rubricsvc.NewRubricService()
	if err != nil {
		return nil, fmt.Errorf("tạo RubricService: %w", err)
	}

	return &Dispatcher{
		jobSvc:       jobs,
		jobs:         jobs,
		scorer:       scorer,
		evaluations:  evaluations,
		interactions: interactions,
		rubrics:      rubrics,
		opts:         opts,
		limiter:      newScoringLimiter(opts.MaxConcurrent, opts.Window),
	}, nil
}

// Jobs trả về JobService bên dưới (scheduler dùng để submit).
func (d *Dispatcher) Jobs() *JobService {
	return d.jobSvc
}

// Run chạy vòng lặp dispatcher cho tới khi context bị hủy,
// chờ các job đang chạy kết thúc trước khi trả về.
func (d *Dispatcher) Run(ctx context.Context) {
	log := logger.GetAppLogger()
	log.WithFields(map[string]interface{}{
		"maxConcurrent": d.opts.MaxConcurrent,
		"windowSeconds": d.opts.Window.Seconds(),
	}).Info("⚙️ [JOBQUEUE] Dispatcher bắt đầu chạy")

	for {
		if ctx.Err() != nil {
			break
		}

		// Đặt trước một token; trả lại (Cancel) khi không nhận được job
		// để hàng đợi trống không ăn mòn hạn mức gọi API
		res := d.limiter.Reserve()
		if delay := res.Delay(); delay > 0 {
			if !sleepCtx(ctx, delay) {
				res.Cancel()
				break
			}
		}

		job, err := d.jobs.ClaimNext(ctx, time.Now())
		if err != nil {
			res.Cancel()
			if !errors.Is(err, common.ErrNotFound) {
				log.WithField("error", err.Error()).Error("⚙️ [JOBQUEUE] Lỗi khi nhận job")
			}
			if !sleepCtx(ctx, d.opts.PollInterval) {
				break
			}
			continue
		}

		d.wg.Add(1)
		go func(job JobRecord) {
			defer d.wg.Done()
			d.execute(ctx, job)
		}(job)
	}

	d.wg.Wait()
	log.Info("⚙️ [JOBQUEUE] Dispatcher đã dừng")
}

// RunPruner dọn định kỳ các job completed đã quá thời gian giữ lại.
func (d *Dispatcher) RunPruner(ctx context.Context) {
	log := logger.GetAppLogger()
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := d.jobs.PruneCompleted(ctx, d.opts.Retention)
			if err != nil {
				log.WithField("error", err.Error()).Error("⚙️ [JOBQUEUE] Lỗi khi prune job completed")
				continue
			}
			if deleted > 0 {
				log.WithField("deleted", deleted).Info("⚙️ [JOBQUEUE] Đã prune job completed")
			}
		}
	}
}

// execute chấm một job: load tương tác + rubric, gọi Scorer, lưu đánh giá
// ở trạng thái completed rồi đánh dấu tương tác đã được đánh giá.
func (d *Dispatcher) execute(ctx context.Context, job JobRecord) {
	log := logger.GetAppLogger()
	log.WithFields(map[string]interface{}{
		"jobId":         job.ID.Hex(),
		"interactionId": job.InteractionID.Hex(),
		"attempt":       job.Attempts,
		"priority":      job.Priority,
	}).Info("⚙️ [JOBQUEUE] Bắt đầu chấm job")

	interaction, err := d.interactions.FindOneById(ctx, job.InteractionID)
	if err != nil {
		d.fail(ctx, job, fmt.Errorf("load tương tác: %w", err))
		return
	}
	rubric, err := d.rubrics.FindOneById(ctx, job.RubricID)
	if err != nil {
		d.fail(ctx, job, fmt.Errorf("load rubric: %w", err))
		return
	}

	results, err := d.scorer.Score(ctx, &interaction, &rubric)
	if err != nil {
		d.fail(ctx, job, fmt.Errorf("chấm điểm: %w", err))
		return
	}

	parameters := make([]evalmodels.EvaluationParameter, 0, len(results))
	for _, r := range results {
		parameters = append(parameters, evalmodels.EvaluationParameter{
			Name:        r.Name,
			Score:       r.Score,
			Explanation: r.Explanation,
			Confidence:  r.Confidence,
		})
	}

	eval := evalmodels.Evaluation{
		InteractionID:     job.InteractionID,
		RubricID:          job.RubricID,
		AgentID:           interaction.AgentID,
		AgentName:         interaction.AgentName,
		EvaluatorIdentity: job.EvaluatorIdentity,
		Parameters:        parameters,
	}
	created, err := d.evaluations.CreateFromAI(ctx, eval)
	if err != nil {
		d.fail(ctx, job, fmt.Errorf("lưu đánh giá: %w", err))
		return
	}

	if err := d.interactions.MarkEvaluated(ctx, job.InteractionID); err != nil {
		// Đánh giá đã lưu, chỉ cảnh báo — matcher có thể chọn lại tương tác này
		log.WithFields(map[string]interface{}{
			"jobId":         job.ID.Hex(),
			"interactionId": job.InteractionID.Hex(),
			"error":         err.Error(),
		}).Warn("⚙️ [JOBQUEUE] Không đánh dấu được tương tác đã đánh giá")
	}

	if err := d.jobs.MarkCompleted(ctx, job.ID); err != nil {
		log.WithFields(map[string]interface{}{
			"jobId": job.ID.Hex(),
			"error": err.Error(),
		}).Error("⚙️ [JOBQUEUE] Không đánh dấu được job completed")
		return
	}

	log.WithFields(map[string]interface{}{
		"jobId":        job.ID.Hex(),
		"evaluationId": created.ID.Hex(),
		"totalScore":   created.TotalScore,
		"maxScore":     created.MaxScore,
	}).Info("⚙️ [JOBQUEUE] Job chấm xong")
}

// fail ghi nhận thất bại, đẩy job về waiting (còn lượt) hoặc failed (hết lượt).
func (d *Dispatcher) fail(ctx context.Context, job JobRecord, cause error) {
	if err := d.jobs.MarkFailed(ctx, job, cause, d.opts.BackoffBase); err != nil {
		logger.GetAppLogger().WithFields(map[string]interface{}{
			"jobId": job.ID.Hex(),
			"error": err.Error(),
		}).Error("⚙️ [JOBQUEUE] Không ghi nhận được job thất bại")
	}
}

// sleepCtx ngủ tối đa d, trả về false nếu context bị hủy trước.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
