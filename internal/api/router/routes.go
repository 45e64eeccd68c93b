// Package router - Đăng ký toàn bộ route HTTP của hệ thống đánh giá chất lượng.
//
// ============================================================================
// ⚠️ QUAN TRỌNG: BUG FIBER V3 - CÁCH ĐĂNG KÝ MIDDLEWARE
// ============================================================================
//
// Fiber v3 có bug với cách đăng ký middleware trực tiếp trong route:
// router.Get("/path", middleware, handler) → middleware KHÔNG được gọi.
// Phải tạo group rồi gắn middleware qua .Use() (xem registerRouteWithMiddleware).
// ============================================================================
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "qa_center/internal/api/base/handler"
	evalhdl "qa_center/internal/api/evaluation/handler"
	interactionhdl "qa_center/internal/api/interaction/handler"
	jobhdl "qa_center/internal/api/job/handler"
	rubrichdl "qa_center/internal/api/rubric/handler"
	schedhdl "qa_center/internal/api/schedule/handler"
	"qa_center/internal/scheduler"
)

// CRUDHandler định nghĩa interface cho các handler CRUD
type CRUDHandler interface {
	// Create
	InsertOne(c fiber.Ctx) error
	InsertMany(c fiber.Ctx) error

	// Read
	Find(c fiber.Ctx) error
	FindOne(c fiber.Ctx) error
	FindOneById(c fiber.Ctx) error
	FindManyByIds(c fiber.Ctx) error
	FindWithPagination(c fiber.Ctx) error

	// Update
	UpdateOne(c fiber.Ctx) error
	UpdateMany(c fiber.Ctx) error
	UpdateById(c fiber.Ctx) error
	FindOneAndUpdate(c fiber.Ctx) error

	// Delete
	DeleteOne(c fiber.Ctx) error
	DeleteMany(c fiber.Ctx) error
	DeleteById(c fiber.Ctx) error
	FindOneAndDelete(c fiber.Ctx) error

	// Other
	CountDocuments(c fiber.Ctx) error
	Distinct(c fiber.Ctx) error
	Upsert(c fiber.Ctx) error
	DocumentExists(c fiber.Ctx) error
}

// Router quản lý việc định tuyến cho API
type Router struct {
	app *fiber.App
}

// CRUDConfig cấu hình các operation được phép cho mỗi collection
type CRUDConfig struct {
	// Create
	InsOne  bool // Insert One
	InsMany bool // Insert Many

	// Read
	Find     bool // Find All
	FindOne  bool // Find One
	FindById bool // Find By Id
	FindIds  bool // Find Many By Ids
	Paginate bool // Find With Pagination

	// Update
	UpdOne  bool // Update One
	UpdMany bool // Update Many
	UpdById bool // Update By Id
	FindUpd bool // Find One And Update

	// Delete
	DelOne  bool // Delete One
	DelMany bool // Delete Many
	DelById bool // Delete By Id
	FindDel bool // Find One And Delete

	// Other
	Count    bool // Count Documents
	Distinct bool // Distinct
	Upsert   bool // Upsert One
	Exists   bool // Document Exists
}

// Config dùng chung cho các collection.
var (
	// ReadOnlyConfig chỉ cho phép đọc — dùng cho dữ liệu do hệ thống ghi
	// (đánh giá, job, lịch sử scheduler).
	ReadOnlyConfig = CRUDConfig{
		Find: true, FindOne: true, FindById: true,
		FindIds: true, Paginate: true,
		Count: true, Distinct: true, Exists: true,
	}

	// ReadWriteConfig cho phép đầy đủ CRUD.
	ReadWriteConfig = CRUDConfig{
		InsOne: true, InsMany: true,
		Find: true, FindOne: true, FindById: true,
		FindIds: true, Paginate: true,
		UpdOne: true, UpdMany: true, UpdById: true,
		FindUpd: true,
		DelOne:  true, DelMany: true, DelById: true,
		FindDel: true,
		Count:   true, Distinct: true,
		Upsert: true, Exists: true,
	}

	// RubricRouteConfig chặn các op ghi generic (insert-many, update-one/many,
	// find-one-and-update, upsert-one) — mọi đường ghi rubric phải đi qua
	// insert-one/update-by-id để định nghĩa được validate trước khi lưu.
	RubricRouteConfig = CRUDConfig{
		InsOne: true,
		Find:   true, FindOne: true, FindById: true,
		FindIds: true, Paginate: true,
		UpdById: true,
		DelOne:  true, DelMany: true, DelById: true,
		FindDel: true,
		Count:   true, Distinct: true, Exists: true,
	}
)

// RoutePrefix chứa các prefix cơ bản cho API
type RoutePrefix struct {
	Base string // Prefix cơ bản (/api)
	V1   string // Prefix cho API version 1 (/api/v1)
}

// NewRoutePrefix tạo mới một instance của RoutePrefix với các giá trị mặc định
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// NewRouter tạo mới một instance của Router
func NewRouter(app *fiber.App) *Router {
	return &Router{
		app: app,
	}
}

// registerRouteWithMiddleware đăng ký route qua group + .Use() — cách duy nhất
// để middleware được gọi đúng trong Fiber v3 (xem ghi chú đầu file).
func registerRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch method {
	case "GET":
		routeGroup.Get(path, handler)
	case "POST":
		routeGroup.Post(path, handler)
	case "PUT":
		routeGroup.Put(path, handler)
	case "DELETE":
		routeGroup.Delete(path, handler)
	}
}

// RegisterCRUDRoutes đăng ký các route CRUD cho một collection theo config.
func (r *Router) RegisterCRUDRoutes(router fiber.Router, prefix string, h CRUDHandler, config CRUDConfig) {
	// Create operations
	if config.InsOne {
		registerRouteWithMiddleware(router, prefix, "POST", "/insert-one", nil, h.InsertOne)
	}
	if config.InsMany {
		registerRouteWithMiddleware(router, prefix, "POST", "/insert-many", nil, h.InsertMany)
	}

	// Read operations
	if config.Find {
		registerRouteWithMiddleware(router, prefix, "GET", "/find", nil, h.Find)
	}
	if config.FindOne {
		registerRouteWithMiddleware(router, prefix, "GET", "/find-one", nil, h.FindOne)
	}
	if config.FindById {
		registerRouteWithMiddleware(router, prefix, "GET", "/find-by-id/:id", nil, h.FindOneById)
	}
	if config.FindIds {
		registerRouteWithMiddleware(router, prefix, "POST", "/find-by-ids", nil, h.FindManyByIds)
	}
	if config.Paginate {
		registerRouteWithMiddleware(router, prefix, "GET", "/find-with-pagination", nil, h.FindWithPagination)
	}

	// Update operations
	if config.UpdOne {
		registerRouteWithMiddleware(router, prefix, "PUT", "/update-one", nil, h.UpdateOne)
	}
	if config.UpdMany {
		registerRouteWithMiddleware(router, prefix, "PUT", "/update-many", nil, h.UpdateMany)
	}
	if config.UpdById {
		registerRouteWithMiddleware(router, prefix, "PUT", "/update-by-id/:id", nil, h.UpdateById)
	}
	if config.FindUpd {
		registerRouteWithMiddleware(router, prefix, "PUT", "/find-one-and-update", nil, h.FindOneAndUpdate)
	}

	// Delete operations
	if config.DelOne {
		registerRouteWithMiddleware(router, prefix, "DELETE", "/delete-one", nil, h.DeleteOne)
	}
	if config.DelMany {
		registerRouteWithMiddleware(router, prefix, "DELETE", "/delete-many", nil, h.DeleteMany)
	}
	if config.DelById {
		registerRouteWithMiddleware(router, prefix, "DELETE", "/delete-by-id/:id", nil, h.DeleteById)
	}
	if config.FindDel {
		registerRouteWithMiddleware(router, prefix, "DELETE", "/find-one-and-delete", nil, h.FindOneAndDelete)
	}

	// Other operations
	if config.Count {
		registerRouteWithMiddleware(router, prefix, "GET", "/count", nil, h.CountDocuments)
	}
	if config.Distinct {
		registerRouteWithMiddleware(router, prefix, "GET", "/distinct", nil, h.Distinct)
	}
	if config.Upsert {
		registerRouteWithMiddleware(router, prefix, "POST", "/upsert-one", nil, h.Upsert)
	}
	if config.Exists {
		registerRouteWithMiddleware(router, prefix, "GET", "/exists", nil, h.DocumentExists)
	}
}

// SetupRoutes thiết lập tất cả route của hệ thống QA dưới /api/v1.
// Scheduler được truyền từ cmd/server vì nó phải chạy trước khi HTTP server nhận request.
func SetupRoutes(app *fiber.App, sched *scheduler.Scheduler) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	r := NewRouter(app)

	// System
	systemHandler, err := basehdl.NewSystemHandler()
	if err != nil {
		return fmt.Errorf("tạo SystemHandler: %w", err)
	}
	registerRouteWithMiddleware(v1, "/system", "GET", "/health", nil, systemHandler.HandleHealth)

	// Rubric: bộ tiêu chí chấm điểm
	rubricHandler, err := rubrichdl.NewRubricHandler()
	if err != nil {
		return fmt.Errorf("tạo RubricHandler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/rubric", rubricHandler, RubricRouteConfig)

	// Interaction: dữ liệu tổng đài đổ về
	interactionHandler, err := interactionhdl.NewInteractionHandler()
	if err != nil {
		return fmt.Errorf("tạo InteractionHandler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/interaction", interactionHandler, ReadWriteConfig)

	// Selection profile + điều khiển scheduler
	scheduleHandler, err := schedhdl.NewScheduleHandler(sched)
	if err != nil {
		return fmt.Errorf("tạo ScheduleHandler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/selection-profile", scheduleHandler, ReadWriteConfig)
	registerRouteWithMiddleware(v1, "/selection-profile", "PUT", "/scheduler-config/:id", nil, scheduleHandler.HandleUpdateScheduleConfig)
	registerRouteWithMiddleware(v1, "/selection-profile", "POST", "/scheduler-run/:id", nil, scheduleHandler.HandleRunProfile)
	registerRouteWithMiddleware(v1, "/selection-profile", "GET", "/scheduler-history/:id", nil, scheduleHandler.HandleHistory)

	// Evaluation: chỉ đọc qua CRUD, ghi qua vòng đời kiểm duyệt
	evaluationHandler, err := evalhdl.NewEvaluationHandler()
	if err != nil {
		return fmt.Errorf("tạo EvaluationHandler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/evaluation", evaluationHandler, ReadOnlyConfig)
	registerRouteWithMiddleware(v1, "/evaluation", "POST", "/moderate/:id", nil, evaluationHandler.HandleModerate)
	registerRouteWithMiddleware(v1, "/evaluation", "POST", "/publish/:id", nil, evaluationHandler.HandlePublish)
	registerRouteWithMiddleware(v1, "/evaluation", "POST", "/agent-comment/:id", nil, evaluationHandler.HandleAgentComment)

	// Job queue: chỉ đọc, job do scheduler tạo và dispatcher cập nhật
	jobHandler, err := jobhdl.NewJobHandler()
	if err != nil {
		return fmt.Errorf("tạo JobHandler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/evaluation-job", jobHandler, ReadOnlyConfig)

	return nil
}
