package jobqueue

import (
	"time"

	"golang.org/x/time/rate"
)

// newScoringLimiter tạo token bucket giới hạn tốc độ gọi API chấm điểm:
// burst = số job tối đa trong một window, tốc độ nạp lại = max/window.
func newScoringLimiter(maxConcurrent int, window time.Duration) *rate.Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if window <= 0 {
		window = time.Second
	}
	return rate.NewLimiter(rate.Limit(float64(maxConcurrent)/window.Seconds()), maxConcurrent)
}
