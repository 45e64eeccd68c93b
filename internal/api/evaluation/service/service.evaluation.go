// Package evalsvc - Service đánh giá + vòng đời kiểm duyệt (qa_evaluations).
package evalsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "qa_center/internal/api/base/service"
	evaldto "qa_center/internal/api/evaluation/dto"
	evalmodels "qa_center/internal/api/evaluation/models"
	rubricsvc "qa_center/internal/api/rubric/service"
	"qa_center/internal/common"
	"qa_center/internal/global"
	"qa_center/internal/logger"
	"qa_center/internal/scoring"
)

// EvaluationService xử lý lưu trữ đánh giá và vòng đời kiểm duyệt.
type EvaluationService struct {
	*basesvc.BaseServiceMongoImpl[evalmodels.Evaluation]
	rubricService *rubricsvc.RubricService
}

// NewEvaluationService tạo EvaluationService mới.
func NewEvaluationService() (*EvaluationService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Evaluations)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Evaluations, common.ErrNotFound)
	}
	rubricService, err := rubricsvc.NewRubricService()
	if err != nil {
		return nil, fmt.Errorf("tạo RubricService: %w", err)
	}
	return &EvaluationService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[evalmodels.Evaluation](coll),
		rubricService:        rubricService,
	}, nil
}

// currentStatus trả về trạng thái hiện tại, dẫn xuất lại khi field chưa được ghi.
func currentStatus(eval *evalmodels.Evaluation) string {
	if eval.Status != "" {
		return eval.Status
	}
	return eval.DeriveStatus()
}

// CreateFromAI lưu kết quả AI thành đánh giá mới ở trạng thái completed,
// tính sẵn snapshot điểm ban đầu (chưa có overlay). Gọi bởi job chấm điểm.
func (s *EvaluationService) CreateFromAI(ctx context.Context, eval evalmodels.Evaluation) (evalmodels.Evaluation, error) {
	rubric, err := s.rubricService.FindOneById(ctx, eval.RubricID)
	if err != nil {
		return evalmodels.Evaluation{}, fmt.Errorf("rubric %s: %w", eval.RubricID.Hex(), err)
	}

	snapshot := scoring.Compute(eval.ScoringInputs(nil), &rubric)
	eval.Snapshot = snapshot
	eval.TotalScore = snapshot.Overall.AdjustedScore
	eval.MaxScore = snapshot.Overall.MaxScore
	eval.Status = evalmodels.StatusCompleted

	return s.InsertOne(ctx, eval)
}

// Moderate áp overlay của người kiểm duyệt lên đánh giá:
// tính lại snapshot phía server (snapshot client gửi lên chỉ mang tính tham khảo)
// rồi ghi overlay + snapshot + mirror totalScore/maxScore trong MỘT lần update
// (last-writer-wins). Có thể công bố luôn trong cùng lần gọi qua input.Publish.
func (s *EvaluationService) Moderate(ctx context.Context, id primitive.ObjectID, input *evaldto.ModerateInput, moderator string) (*evalmodels.Evaluation, error) {
	log := logger.GetAppLogger()

	eval, err := s.FindOneById(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrCodeDatabaseQuery, "Không tìm thấy đánh giá", common.StatusNotFound, nil)
		}
		return nil, err
	}

	rubric, err := s.rubricService.FindOneById(ctx, eval.RubricID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrCodeDatabaseQuery, "Không tìm thấy rubric của đánh giá", common.StatusNotFound, nil)
		}
		return nil, err
	}

	targetStatus := evalmodels.StatusModerated
	if input.Publish {
		targetStatus = evalmodels.StatusPublished
	}
	if err := evalmodels.ValidateTransition(currentStatus(&eval), targetStatus); err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	overlay := &evalmodels.HumanOverlay{
		ParameterOverrides: input.ParameterOverrides,
		AdditionalComments: input.AdditionalComments,
		IsModerated:        true,
		IsPublished:        input.Publish,
		ModeratedBy:        moderator,
		ModeratedAt:        now,
	}
	// Giữ phản hồi agent đã có từ lần kiểm duyệt trước
	if eval.Overlay != nil {
		overlay.AgentComments = eval.Overlay.AgentComments
	}

	snapshot := scoring.Compute(eval.ScoringInputs(overlay), &rubric)

	updated, err := s.UpdateById(ctx, id, bson.M{"$set": bson.M{
		"overlay":    overlay,
		"snapshot":   snapshot,
		"totalScore": snapshot.Overall.AdjustedScore,
		"maxScore":   snapshot.Overall.MaxScore,
		"status":     targetStatus,
	}})
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"evaluationId": id.Hex(),
		"moderator":    moderator,
		"status":       targetStatus,
		"totalScore":   snapshot.Overall.AdjustedScore,
	}).Info("📝 [MODERATION] Đã kiểm duyệt đánh giá")

	return &updated, nil
}

// Publish chuyển đánh giá từ moderated sang published.
func (s *EvaluationService) Publish(ctx context.Context, id primitive.ObjectID, moderator string) (*evalmodels.Evaluation, error) {
	eval, err := s.FindOneById(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrCodeDatabaseQuery, "Không tìm thấy đánh giá", common.StatusNotFound, nil)
		}
		return nil, err
	}

	status := currentStatus(&eval)
	if status != evalmodels.StatusModerated {
		return nil, common.NewError(
			common.ErrCodeEvaluationState,
			fmt.Sprintf("Chỉ công bố được đánh giá ở trạng thái moderated, hiện tại '%s'", status),
			common.StatusBadRequest,
			nil,
		)
	}

	now := time.Now().UnixMilli()
	updated, err := s.UpdateById(ctx, id, bson.M{"$set": bson.M{
		"overlay.isPublished": true,
		"overlay.moderatedBy": moderator,
		"overlay.moderatedAt": now,
		"status":              evalmodels.StatusPublished,
	}})
	if err != nil {
		return nil, err
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"evaluationId": id.Hex(),
		"moderator":    moderator,
	}).Info("📝 [MODERATION] Đã công bố đánh giá")

	return &updated, nil
}

// SubmitAgentComment ghi phản hồi của agent. Chỉ chấp nhận khi đánh giá đã
// published và người gọi chính là agent của tương tác được đánh giá.
func (s *EvaluationService) SubmitAgentComment(ctx context.Context, id primitive.ObjectID, agentRef string, comment string) (*evalmodels.Evaluation, error) {
	eval, err := s.FindOneById(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrCodeDatabaseQuery, "Không tìm thấy đánh giá", common.StatusNotFound, nil)
		}
		return nil, err
	}

	if currentStatus(&eval) != evalmodels.StatusPublished {
		return nil, common.NewError(
			common.ErrCodeEvaluationAccess,
			"Chỉ gửi được phản hồi khi đánh giá đã được công bố",
			common.StatusForbidden,
			nil,
		)
	}
	if agentRef == "" || eval.AgentID != agentRef {
		return nil, common.NewError(
			common.ErrCodeEvaluationAccess,
			"Chỉ agent của tương tác được đánh giá mới gửi được phản hồi",
			common.StatusForbidden,
			nil,
		)
	}

	entry := evalmodels.AgentComment{
		AgentID:   agentRef,
		Comment:   comment,
		CreatedAt: time.Now().UnixMilli(),
	}
	updated, err := s.UpdateById(ctx, id, bson.M{
		"$push": bson.M{"overlay.agentComments": entry},
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}
