package main

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	rubricmodels "qa_center/internal/api/rubric/models"
	rubricsvc "qa_center/internal/api/rubric/service"
	"qa_center/internal/logger"
)

// InitDefaultData seed một rubric mẫu khi hệ thống chạy lần đầu, để người dùng
// có bộ tiêu chí tham khảo trước khi tự định nghĩa.
func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	rubricService, err := rubricsvc.NewRubricService()
	if err != nil {
		log.Fatalf("Failed to initialize rubric service: %v", err)
	}

	ctx := context.Background()
	count, err := rubricService.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Warnf("Failed to count rubrics, skip seeding: %v", err)
		return
	}
	if count > 0 {
		log.Info("✅ [INIT] Rubrics already present, skip seeding")
		return
	}

	defaultRubric := rubricmodels.Rubric{
		Name:        "Bộ tiêu chí mẫu",
		Description: "Rubric mẫu cho cuộc gọi chăm sóc khách hàng, thay thế bằng bộ tiêu chí riêng trước khi chấm thật.",
		Groups: []rubricmodels.RubricGroup{
			{ID: "opening", Name: "Mở đầu"},
			{ID: "handling", Name: "Xử lý yêu cầu"},
			{ID: "closing", Name: "Kết thúc"},
		},
		Parameters: []rubricmodels.RubricParameter{
			{Name: "Chào hỏi đúng chuẩn", Group: "opening", MaxScore: 5, ScoringType: rubricmodels.ScoringTypeBinary, Classification: rubricmodels.ClassificationMinor},
			{Name: "Xác nhận danh tính khách", Group: "opening", MaxScore: 5, ScoringType: rubricmodels.ScoringTypeBinary, Classification: rubricmodels.ClassificationMajor},
			{Name: "Lắng nghe và làm rõ yêu cầu", Group: "handling", MaxScore: 10, ScoringType: rubricmodels.ScoringTypeVariable, Classification: rubricmodels.ClassificationModerate},
			{Name: "Cung cấp thông tin chính xác", Group: "handling", MaxScore: 10, ScoringType: rubricmodels.ScoringTypeVariable, Classification: rubricmodels.ClassificationMajor},
			{Name: "Tóm tắt và xác nhận hướng giải quyết", Group: "closing", MaxScore: 5, ScoringType: rubricmodels.ScoringTypeVariable, Classification: rubricmodels.ClassificationMinor},
		},
		ClassificationImpacts: []rubricmodels.ClassificationImpact{
			{Type: rubricmodels.ClassificationMinor, Percentage: 10},
			{Type: rubricmodels.ClassificationModerate, Percentage: 25},
			{Type: rubricmodels.ClassificationMajor, Percentage: 50},
		},
		IsActive: true,
	}

	if _, err := rubricService.CreateRubric(ctx, defaultRubric); err != nil {
		log.Warnf("Failed to seed default rubric: %v", err)
		return
	}
	log.Info("✅ [INIT] Seeded default rubric")
}
