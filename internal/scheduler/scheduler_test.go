package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCronParser_FiveFields(t *testing.T) {
	valid := []string{
		"*/15 * * * *",
		"0 2 * * *",
		"30 8 * * 1-5",
		"0 0 1 * *",
	}
	for _, expr := range valid {
		_, err := cronParser.Parse(expr)
		assert.NoError(t, err, "expression %q phải parse được", expr)
	}

	invalid := []string{
		"",
		"not-a-cron",
		"* * * *",       // thiếu trường
		"* * * * * *",   // 6 trường (có giây) không được chấp nhận
		"61 * * * *",    // phút ngoài khoảng
		"* 25 * * *",    // giờ ngoài khoảng
	}
	for _, expr := range invalid {
		_, err := cronParser.Parse(expr)
		assert.Error(t, err, "expression %q phải bị từ chối", expr)
	}
}
