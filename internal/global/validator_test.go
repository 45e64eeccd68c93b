package global

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// classificationInput mô phỏng cách DTO gắn tag severity lên nhãn phân loại,
// kể cả qua dive vào phần tử slice (như parameterOverrides của ModerateInput).
type classificationInput struct {
	Classification string `validate:"omitempty,severity"`
}

type overrideListInput struct {
	Overrides []classificationInput `validate:"omitempty,dive"`
}

func TestValidateSeverity(t *testing.T) {
	InitValidator()
	require.NotNil(t, Validate)

	for _, label := range []string{"none", "minor", "moderate", "major"} {
		assert.NoError(t, Validate.Struct(classificationInput{Classification: label}), label)
	}

	// omitempty: bỏ trống nghĩa là không override phân loại
	assert.NoError(t, Validate.Struct(classificationInput{}))

	assert.Error(t, Validate.Struct(classificationInput{Classification: "critical"}))
	assert.Error(t, Validate.Struct(classificationInput{Classification: "MAJOR"}))
}

func TestValidateSeverity_DiveIntoSliceElements(t *testing.T) {
	InitValidator()

	valid := overrideListInput{Overrides: []classificationInput{
		{Classification: "minor"},
		{Classification: ""},
	}}
	assert.NoError(t, Validate.Struct(valid))

	invalid := overrideListInput{Overrides: []classificationInput{
		{Classification: "minor"},
		{Classification: "severe"},
	}}
	assert.Error(t, Validate.Struct(invalid))
}

func TestValidateCron(t *testing.T) {
	InitValidator()

	type scheduleInput struct {
		CronExpression string `validate:"cron"`
	}

	assert.NoError(t, Validate.Struct(scheduleInput{CronExpression: "0 2 * * *"}))
	assert.NoError(t, Validate.Struct(scheduleInput{CronExpression: ""})) // optional
	assert.Error(t, Validate.Struct(scheduleInput{CronExpression: "0 2 * *"}))
	assert.Error(t, Validate.Struct(scheduleInput{CronExpression: "giờ hành chính"}))
}

func TestValidateNoXSS(t *testing.T) {
	InitValidator()

	type commentInput struct {
		Comment string `validate:"omitempty,no_xss"`
	}

	assert.NoError(t, Validate.Struct(commentInput{Comment: "Agent xử lý tốt, cần chú ý xác minh"}))
	assert.Error(t, Validate.Struct(commentInput{Comment: "<script>alert(1)</script>"}))
	assert.Error(t, Validate.Struct(commentInput{Comment: "a href=javascript:void(0)"}))
}
