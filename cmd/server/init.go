package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"qa_center/config"
	evalmodels "qa_center/internal/api/evaluation/models"
	interactionmodels "qa_center/internal/api/interaction/models"
	rubricmodels "qa_center/internal/api/rubric/models"
	schedmodels "qa_center/internal/api/schedule/models"
	"qa_center/internal/database"
	"qa_center/internal/global"
	"qa_center/internal/jobqueue"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo validator (global.InitValidator đăng ký custom validators: no_xss, exists, cron, severity)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	// Khởi tạo db và collections nếu chưa có
	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	// Khởi tạo index từ tag `index:` trên model
	dbName := global.MongoDB_ServerConfig.MongoDB_DBName_QA
	db := global.MongoDB_Session.Database(dbName)
	ctx := context.TODO()
	database.CreateIndexes(ctx, db.Collection(global.MongoDB_ColNames.Rubrics), rubricmodels.Rubric{})
	database.CreateIndexes(ctx, db.Collection(global.MongoDB_ColNames.Interactions), interactionmodels.Interaction{})
	database.CreateIndexes(ctx, db.Collection(global.MongoDB_ColNames.Evaluations), evalmodels.Evaluation{})
	database.CreateIndexes(ctx, db.Collection(global.MongoDB_ColNames.SelectionProfiles), schedmodels.SelectionProfile{})
	database.CreateIndexes(ctx, db.Collection(global.MongoDB_ColNames.SchedulerHistory), schedmodels.SchedulerHistoryEntry{})
	database.CreateIndexes(ctx, db.Collection(global.MongoDB_ColNames.EvaluationJobs), jobqueue.JobRecord{})

	// Index bổ sung (compound, unique partial) không biểu diễn được bằng tag
	if err := database.CreateQaAdditionalIndexes(ctx, db); err != nil {
		logrus.Fatalf("Failed to create additional indexes: %v", err)
	}
	logrus.Info("Created indexes")
}
