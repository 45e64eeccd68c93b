package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng.
// Nó chứa thông tin cơ sở dữ liệu, HTTP server và các tham số của
// scheduler/job queue cho hệ thống đánh giá chất lượng (QA).
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:"8080"`                 // Cổng HTTP server
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URL kết nối cơ sở dữ liệu
	MongoDB_DBName_QA     string `env:"MONGODB_DBNAME_QA,required"`                // Tên cơ sở dữ liệu QA
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// Job queue - giới hạn tốc độ gọi model chấm điểm
	Queue_MaxConcurrent   int `env:"QUEUE_MAX_CONCURRENT" envDefault:"5"`       // Số job tối đa trong một window
	Queue_WindowSeconds   int `env:"QUEUE_WINDOW_SECONDS" envDefault:"5"`       // Độ dài window (giây)
	Queue_MaxAttempts     int `env:"QUEUE_MAX_ATTEMPTS" envDefault:"3"`         // Số lần thử tối đa cho một job
	Queue_BackoffBaseSecs int `env:"QUEUE_BACKOFF_BASE_SECONDS" envDefault:"5"` // Backoff cơ sở giữa các lần retry (giây), nhân đôi mỗi lần
	Queue_RetentionHours  int `env:"QUEUE_RETENTION_HOURS" envDefault:"24"`     // Thời gian giữ job completed trước khi prune (giờ)

	// AI scorer (Anthropic)
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`                                       // API key cho model chấm điểm
	AnthropicModel  string `env:"ANTHROPIC_MODEL" envDefault:"claude-sonnet-4-5-20250929"` // Model dùng để chấm điểm
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Tìm thư mục config
	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			// Tìm thấy thư mục config/env
			envPath := filepath.Join(envDir, fmt.Sprintf("%s.env", env))
			return envPath
		}

		// Đi lên thư mục cha
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ file env được cung cấp
func NewConfig(files ...string) *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không tìm thấy thư mục config/env\n")
		return nil
	}

	err := godotenv.Load(envPath)
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		return nil
	}

	cfg := Configuration{}
	err = env.Parse(&cfg)
	if err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
