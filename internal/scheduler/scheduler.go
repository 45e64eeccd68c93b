// Package scheduler - Bộ lập lịch quét tương tác theo SelectionProfile.
// Mỗi profile có lịch bật tương ứng một cron entry; mỗi lần kích hoạt chạy
// matcher rồi đưa job chấm điểm vào hàng đợi.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	interactionmodels "qa_center/internal/api/interaction/models"
	interactionsvc "qa_center/internal/api/interaction/service"
	schedmodels "qa_center/internal/api/schedule/models"
	schedsvc "qa_center/internal/api/schedule/service"
	"qa_center/internal/common"
	"qa_center/internal/jobqueue"
	"qa_center/internal/logger"
)

// cronParser chuẩn 5 trường (phút giờ ngày tháng thứ), khớp với validator "cron".
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Các interface hẹp cho từng phụ thuộc của scheduler — các service Mongo
// thỏa mãn sẵn, test thay bằng fake.
type profileStore interface {
	FindOneById(ctx context.Context, id primitive.ObjectID) (schedmodels.SelectionProfile, error)
	FindEnabledProfiles(ctx context.Context) ([]schedmodels.SelectionProfile, error)
	UpdateScheduleConfig(ctx context.Context, id primitive.ObjectID, cfg schedmodels.ScheduleConfig) (*schedmodels.SelectionProfile, error)
}

type interactionMatcher interface {
	Match(ctx context.Context, profile *schedmodels.SelectionProfile, opts interactionsvc.MatchOptions) ([]interactionmodels.Interaction, error)
}

type historyStore interface {
	Append(ctx context.Context, entry schedmodels.SchedulerHistoryEntry) (schedmodels.SchedulerHistoryEntry, error)
}

type jobSubmitter interface {
	Submit(ctx context.Context, job jobqueue.JobRecord) (jobqueue.JobRecord, error)
}

// Scheduler giữ một cron entry cho mỗi profile có lịch bật.
type Scheduler struct {
	cron         *cron.Cron
	profiles     profileStore
	history      historyStore
	interactions interactionMatcher
	jobs         jobSubmitter

	mu      sync.Mutex
	entries map[primitive.ObjectID]cron.EntryID
}

// New tạo Scheduler mới, dùng chung JobService với dispatcher.
func New(jobs *jobqueue.JobService) (*Scheduler, error) {
	profiles, err := schedsvc.NewSelectionProfileService()
	if err != nil {
		return nil, fmt.Errorf("tạo SelectionProfileService: %w", err)
	}
	history, err := schedsvc.NewSchedulerHistoryService()
	if err != nil {
		return nil, fmt.Errorf("tạo SchedulerHistoryService: %w", err)
	}
	interactions, err := interactionsvc.NewInteractionService()
	if err != nil {
		return nil, fmt.Errorf("tạo InteractionService: %w", err)
	}

	return &Scheduler{
		cron:         cron.New(cron.WithParser(cronParser)),
		profiles:     profiles,
		history:      history,
		interactions: interactions,
		jobs:         jobs,
		entries:      make(map[primitive.ObjectID]cron.EntryID),
	}, nil
}

// Start cài lại cron entry cho mọi profile có lịch bật rồi chạy cron.
func (s *Scheduler) Start(ctx context.Context) error {
	log := logger.GetAppLogger()

	profiles, err := s.profiles.FindEnabledProfiles(ctx)
	if err != nil {
		return fmt.Errorf("load profile có lịch bật: %w", err)
	}

	for _, profile := range profiles {
		if err := s.install(profile.ID, profile.Schedule); err != nil {
			// Cron expression hỏng trong DB không chặn các profile còn lại
			log.WithFields(map[string]interface{}{
				"profileId":      profile.ID.Hex(),
				"cronExpression": profile.Schedule.CronExpression,
				"error":          err.Error(),
			}).Error("🗓️ [SCHEDULER] Bỏ qua profile có cron expression không hợp lệ")
		}
	}

	s.cron.Start()
	log.WithField("profiles", len(s.entries)).Info("🗓️ [SCHEDULER] Scheduler bắt đầu chạy")
	return nil
}

// Stop dừng cron, chờ lượt chạy đang dở kết thúc.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	logger.GetAppLogger().Info("🗓️ [SCHEDULER] Scheduler đã dừng")
}

// install đăng ký cron entry cho một profile. Caller chưa giữ mu.
func (s *Scheduler) install(profileID primitive.ObjectID, cfg schedmodels.ScheduleConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Gỡ entry cũ trước khi cài lịch mới
	if entryID, ok := s.entries[profileID]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, profileID)
	}

	if !cfg.Enabled || cfg.CronExpression == "" {
		return nil
	}

	if _, err := cronParser.Parse(cfg.CronExpression); err != nil {
		return fmt.Errorf("cron expression '%s': %w", cfg.CronExpression, err)
	}

	entryID, err := s.cron.AddFunc(cfg.CronExpression, func() {
		// Lỗi của một lượt chạy đã được ghi vào history; cron entry vẫn giữ nguyên
		_, _ = s.RunProfile(context.Background(), profileID, 0, schedmodels.TriggerCron)
	})
	if err != nil {
		return err
	}
	s.entries[profileID] = entryID
	return nil
}

// UpdateSchedule kiểm tra cron expression, lưu cấu hình lịch vào profile rồi
// cài lại (hoặc gỡ) cron entry tương ứng.
func (s *Scheduler) UpdateSchedule(ctx context.Context, profileID primitive.ObjectID, cfg schedmodels.ScheduleConfig) (*schedmodels.SelectionProfile, error) {
	if cfg.Enabled {
		if cfg.CronExpression == "" {
			return nil, common.NewError(
				common.ErrCodeSchedulerCron,
				"Bật lịch định kỳ cần cronExpression",
				common.StatusBadRequest,
				nil,
			)
		}
		if _, err := cronParser.Parse(cfg.CronExpression); err != nil {
			return nil, common.NewError(
				common.ErrCodeSchedulerCron,
				fmt.Sprintf("Cron expression '%s' không hợp lệ: %v", cfg.CronExpression, err),
				common.StatusBadRequest,
				nil,
			)
		}
	}

	updated, err := s.profiles.UpdateScheduleConfig(ctx, profileID, cfg)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrCodeDatabaseQuery, "Không tìm thấy profile", common.StatusNotFound, nil)
		}
		return nil, err
	}

	if err := s.install(profileID, cfg); err != nil {
		return nil, common.NewError(common.ErrCodeSchedulerCron, err.Error(), common.StatusBadRequest, nil)
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"profileId":      profileID.Hex(),
		"enabled":        cfg.Enabled,
		"cronExpression": cfg.CronExpression,
	}).Info("🗓️ [SCHEDULER] Đã cập nhật lịch của profile")

	return updated, nil
}

// NextFireTime trả về lần kích hoạt kế tiếp của profile (nil nếu lịch tắt).
func (s *Scheduler) NextFireTime(profileID primitive.ObjectID) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, ok := s.entries[profileID]
	if !ok {
		return nil
	}
	next := s.cron.Entry(entryID).Next
	if next.IsZero() {
		return nil
	}
	return &next
}
