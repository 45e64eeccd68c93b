package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	interactionsvc "qa_center/internal/api/interaction/service"
	"qa_center/internal/api/schedule/dto"
	schedmodels "qa_center/internal/api/schedule/models"
	"qa_center/internal/common"
	"qa_center/internal/jobqueue"
	"qa_center/internal/logger"
)

// RunProfile chạy một lượt quét cho profile: match tương tác đủ điều kiện,
// đưa job chấm điểm vào hàng đợi rồi ghi một dòng history. Dùng chung cho
// kích hoạt cron và chạy thủ công; maxEvaluations <= 0 lấy theo cấu hình profile.
func (s *Scheduler) RunProfile(ctx context.Context, profileID primitive.ObjectID, maxEvaluations int, trigger string) (*dto.SchedulerRunResult, error) {
	log := logger.GetAppLogger()
	startTime := time.Now()

	profile, err := s.profiles.FindOneById(ctx, profileID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrCodeDatabaseQuery, "Không tìm thấy profile", common.StatusNotFound, nil)
		}
		return nil, err
	}

	if maxEvaluations <= 0 {
		maxEvaluations = profile.Schedule.MaxEvaluations
	}

	// Match KHÔNG cắt theo cap: interactionsFound phải phản ánh đủ số tương tác
	// đủ điều kiện, cap chỉ giới hạn số job được đưa vào hàng đợi bên dưới
	matched, err := s.interactions.Match(ctx, &profile, interactionsvc.MatchOptions{
		ExcludeEvaluated: true,
	})
	if err != nil {
		// Matcher lỗi: ghi history failed, cron entry vẫn giữ nguyên cho lượt sau
		s.appendHistory(ctx, schedmodels.SchedulerHistoryEntry{
			ProfileID: profileID,
			StartTime: startTime.UnixMilli(),
			EndTime:   time.Now().UnixMilli(),
			Status:    schedmodels.RunStatusFailed,
			Error:     err.Error(),
			Trigger:   trigger,
		})
		log.WithFields(map[string]interface{}{
			"profileId": profileID.Hex(),
			"trigger":   trigger,
			"error":     err.Error(),
		}).Error("🗓️ [SCHEDULER] Lượt quét thất bại ở bước match")
		return nil, common.NewError(common.ErrCodeSchedulerRun, err.Error(), common.StatusInternalServerError, nil)
	}

	jobIDs := make([]string, 0, len(matched))
	for _, interaction := range matched {
		// Đủ cap: các tương tác còn lại chờ lượt sau, lượt này ghi nhận partial
		if maxEvaluations > 0 && len(jobIDs) >= maxEvaluations {
			break
		}

		// Guard thêm một lớp: filter đã loại tương tác thiếu nội dung,
		// nhưng dữ liệu có thể đổi giữa lúc match và lúc submit
		if !interaction.HasRequiredContent() {
			log.WithFields(map[string]interface{}{
				"profileId":     profileID.Hex(),
				"interactionId": interaction.ID.Hex(),
				"channel":       interaction.Channel,
			}).Warn("🗓️ [SCHEDULER] Bỏ qua tương tác thiếu nội dung chấm được")
			continue
		}

		job, err := s.jobs.Submit(ctx, jobqueue.JobRecord{
			InteractionID:     interaction.ID,
			RubricID:          profile.EvaluationFormID,
			AgentID:           interaction.AgentID,
			AgentName:         interaction.AgentName,
			EvaluatorIdentity: profile.Schedule.EvaluatorIdentity,
			Channel:           interaction.Channel,
			Priority:          jobqueue.PriorityForChannel(interaction.Channel),
		})
		if err != nil {
			var appErr *common.Error
			if errors.As(err, &appErr) && appErr.StatusCode == common.StatusConflict {
				log.WithFields(map[string]interface{}{
					"profileId":     profileID.Hex(),
					"interactionId": interaction.ID.Hex(),
				}).Info("🗓️ [SCHEDULER] Tương tác đã có job đang chờ, bỏ qua")
			} else {
				log.WithFields(map[string]interface{}{
					"profileId":     profileID.Hex(),
					"interactionId": interaction.ID.Hex(),
					"error":         err.Error(),
				}).Error("🗓️ [SCHEDULER] Submit job thất bại")
			}
			continue
		}
		jobIDs = append(jobIDs, job.ID.Hex())
	}

	status := schedmodels.RunStatusSuccess
	if len(jobIDs) < len(matched) {
		status = schedmodels.RunStatusPartial
	}

	s.appendHistory(ctx, schedmodels.SchedulerHistoryEntry{
		ProfileID:             profileID,
		StartTime:             startTime.UnixMilli(),
		EndTime:               time.Now().UnixMilli(),
		Status:                status,
		InteractionsFound:     len(matched),
		InteractionsProcessed: len(jobIDs),
		JobIDs:                jobIDs,
		Trigger:               trigger,
	})

	log.WithFields(map[string]interface{}{
		"profileId":             profileID.Hex(),
		"trigger":               trigger,
		"status":                status,
		"interactionsFound":     len(matched),
		"interactionsProcessed": len(jobIDs),
	}).Info("🗓️ [SCHEDULER] Lượt quét hoàn tất")

	return &dto.SchedulerRunResult{
		InteractionsFound:     len(matched),
		InteractionsProcessed: len(jobIDs),
		JobIDs:                jobIDs,
		Status:                status,
	}, nil
}

// appendHistory ghi dòng history, chỉ log khi ghi thất bại — một lượt chạy
// không được phép fail chỉ vì không ghi được audit.
func (s *Scheduler) appendHistory(ctx context.Context, entry schedmodels.SchedulerHistoryEntry) {
	if _, err := s.history.Append(ctx, entry); err != nil {
		logger.GetAppLogger().WithFields(map[string]interface{}{
			"profileId": entry.ProfileID.Hex(),
			"error":     fmt.Sprintf("%v", err),
		}).Error("🗓️ [SCHEDULER] Không ghi được scheduler history")
	}
}
