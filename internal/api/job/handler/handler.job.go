// Package jobhdl - Handler đọc hàng đợi job chấm điểm.
// Job chỉ được tạo bởi scheduler và cập nhật bởi dispatcher, API ngoài chỉ đọc
// nên DTO create/update để trống.
package jobhdl

import (
	"fmt"

	basehdl "qa_center/internal/api/base/handler"
	"qa_center/internal/jobqueue"
)

// JobCreateInput không có field — job không được tạo qua API.
type JobCreateInput struct{}

// JobUpdateInput không có field — job không được sửa qua API.
type JobUpdateInput struct{}

// JobHandler xử lý các yêu cầu đọc hàng đợi job.
type JobHandler struct {
	*basehdl.BaseHandler[jobqueue.JobRecord, JobCreateInput, JobUpdateInput]
}

// NewJobHandler khởi tạo JobHandler mới.
func NewJobHandler() (*JobHandler, error) {
	service, err := jobqueue.NewJobService()
	if err != nil {
		return nil, fmt.Errorf("tạo JobService: %w", err)
	}
	hdl := &JobHandler{}
	hdl.BaseHandler = basehdl.NewBaseHandler[jobqueue.JobRecord, JobCreateInput, JobUpdateInput](service)
	return hdl, nil
}
