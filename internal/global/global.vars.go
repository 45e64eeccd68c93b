package global

import (
	"qa_center/config"
	"qa_center/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_QA_CollectionName chứa tên các collection trong MongoDB
type MongoDB_QA_CollectionName struct {
	Rubrics           string // Tên collection cho bộ tiêu chí chấm điểm
	Interactions      string // Tên collection cho tương tác cần đánh giá
	Evaluations       string // Tên collection cho kết quả đánh giá
	SelectionProfiles string // Tên collection cho hồ sơ chọn mẫu của scheduler
	SchedulerHistory  string // Tên collection cho lịch sử chạy scheduler
	EvaluationJobs    string // Tên collection cho hàng đợi job chấm điểm
}

// Các biến toàn cục
var Validate *validator.Validate               // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client              // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration // Cấu hình của server
var MongoDB_ColNames = MongoDB_QA_CollectionName{
	Rubrics:           "qa_rubrics",
	Interactions:      "qa_interactions",
	Evaluations:       "qa_evaluations",
	SelectionProfiles: "qa_selection_profiles",
	SchedulerHistory:  "qa_scheduler_history",
	EvaluationJobs:    "qa_evaluation_jobs",
}

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
