package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"qa_center/internal/global"
	"qa_center/internal/jobqueue"
	"qa_center/internal/llm"
	"qa_center/internal/logger"
	"qa_center/internal/scheduler"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Logger tự đọc environment variables để cấu hình
	if err := logger.Init(nil); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục
	InitGlobal()

	// Khởi tạo registry
	InitRegistry()

	// Khởi tạo dữ liệu mặc định
	InitDefaultData()

	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig

	// Context gốc hủy khi nhận SIGINT/SIGTERM — dừng scheduler và dispatcher
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Job queue dispatcher: chấm điểm bằng Anthropic dưới giới hạn tốc độ
	scorer := llm.NewAnthropicScorer(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	dispatcher, err := jobqueue.NewDispatcher(scorer, jobqueue.Options{
		MaxConcurrent: cfg.Queue_MaxConcurrent,
		Window:        time.Duration(cfg.Queue_WindowSeconds) * time.Second,
		MaxAttempts:   cfg.Queue_MaxAttempts,
		BackoffBase:   time.Duration(cfg.Queue_BackoffBaseSecs) * time.Second,
		Retention:     time.Duration(cfg.Queue_RetentionHours) * time.Hour,
	})
	if err != nil {
		log.Fatalf("Failed to create job dispatcher: %v", err)
	}
	go dispatcher.Run(ctx)
	go dispatcher.RunPruner(ctx)

	// Scheduler: cài cron entry cho các profile có lịch bật
	sched, err := scheduler.New(dispatcher.Jobs())
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Khởi tạo Fiber app với routes
	app := InitFiberApp(sched)

	// Shutdown HTTP server khi nhận tín hiệu dừng
	go func() {
		<-ctx.Done()
		log.Info("Nhận tín hiệu dừng, đang shutdown...")
		sched.Stop()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Lỗi khi shutdown HTTP server")
		}
	}()

	// Chạy Fiber server trên main thread
	address := ":" + cfg.Address
	log.WithFields(map[string]interface{}{
		"address":  address,
		"protocol": "HTTP",
	}).Info("Starting Fiber server...")

	if err := app.Listen(address, fiber.ListenConfig{}); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}
