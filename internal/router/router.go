package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/college-erp-api/internal/authz"
	"github.com/noah-isme/college-erp-api/internal/handler"
	"github.com/noah-isme/college-erp-api/internal/middleware"
	"github.com/noah-isme/college-erp-api/internal/models"
	"github.com/noah-isme/college-erp-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/college-erp-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/college-erp-api/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Department   *handler.DepartmentHandler
	Course       *handler.CourseHandler
	Attendance   *handler.AttendanceHandler
	Marks        *handler.MarksHandler
	Leave        *handler.LeaveHandler
	Announcement *handler.AnnouncementHandler
	Dashboard    *handler.DashboardHandler
	Export       *handler.ExportHandler
	Metrics      *handler.MetricsHandler
}

// Options tunes the route table.
type Options struct {
	APIPrefix       string
	AllowedOrigins  []string
	EnableDocs      bool
	EnableDashboard bool
}

// Dependencies are the cross-cutting collaborators of the middleware chain.
type Dependencies struct {
	Logger   *zap.Logger
	Tokens   middleware.TokenValidator
	Audit    middleware.AuditWriter
	Observer middleware.RequestObserver
}

// New assembles the gin engine with the global middleware chain and every route.
func New(deps Dependencies, h Handlers, opts Options) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	if deps.Observer != nil {
		r.Use(middleware.Metrics(deps.Observer))
	}
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(normalizePrefix(opts.APIPrefix))

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(deps.Tokens))

	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(deps.Audit, deps.Logger, action, resource)
	}
	can := middleware.Authorize

	secured.POST("/auth/register", can(authz.ResourceUser, authz.ActionCreate), h.Auth.Register)
	secured.GET("/auth/me", h.Auth.Me)

	users := secured.Group("/users")
	users.GET("", can(authz.ResourceUser, authz.ActionRead), h.User.List)
	users.GET("/role/:role", can(authz.ResourceUser, authz.ActionRead), h.User.ByRole)
	users.GET("/department/:departmentId", can(authz.ResourceUser, authz.ActionRead), h.User.ByDepartment)
	users.PATCH("/change-password", h.Auth.ChangePassword)
	users.GET("/:id", can(authz.ResourceUser, authz.ActionRead), h.User.Get)
	users.PUT("/:id", middleware.AuthorizeSelf(authz.ResourceUser, authz.ActionUpdate), h.User.Update)
	users.PATCH("/:id/status", can(authz.ResourceUser, authz.ActionStatus), h.User.UpdateStatus)
	users.DELETE("/:id", can(authz.ResourceUser, authz.ActionDelete), h.User.Delete)

	departments := secured.Group("/departments")
	departments.GET("", can(authz.ResourceDepartment, authz.ActionRead), h.Department.List)
	departments.GET("/:id", can(authz.ResourceDepartment, authz.ActionRead), h.Department.Get)
	departments.POST("", can(authz.ResourceDepartment, authz.ActionCreate), audit(models.AuditActionDepartmentNew, "department"), h.Department.Create)
	departments.PUT("/:id", can(authz.ResourceDepartment, authz.ActionUpdate), audit(models.AuditActionDepartmentEdit, "department"), h.Department.Update)
	departments.DELETE("/:id", can(authz.ResourceDepartment, authz.ActionDelete), h.Department.Delete)

	courses := secured.Group("/courses")
	courses.GET("", can(authz.ResourceCourse, authz.ActionRead), h.Course.List)
	courses.GET("/department/:departmentId", can(authz.ResourceCourse, authz.ActionRead), h.Course.ByDepartment)
	courses.GET("/faculty/:facultyId", can(authz.ResourceCourse, authz.ActionRead), h.Course.ByFaculty)
	courses.GET("/:id", can(authz.ResourceCourse, authz.ActionRead), h.Course.Get)
	courses.POST("", can(authz.ResourceCourse, authz.ActionCreate), audit(models.AuditActionCourseCreate, "course"), h.Course.Create)
	courses.PUT("/:id", can(authz.ResourceCourse, authz.ActionUpdate), audit(models.AuditActionCourseUpdate, "course"), h.Course.Update)
	courses.PUT("/:id/assign-faculty", can(authz.ResourceCourse, authz.ActionAssign), audit(models.AuditActionCourseAssign, "course"), h.Course.AssignFaculty)
	courses.POST("/:id/students", can(authz.ResourceCourse, authz.ActionEnroll), audit(models.AuditActionCourseEnroll, "course"), h.Course.EnrollStudents)
	courses.DELETE("/:id", can(authz.ResourceCourse, authz.ActionDelete), h.Course.Delete)

	attendance := secured.Group("/attendance")
	attendance.POST("", can(authz.ResourceAttendance, authz.ActionCreate), h.Attendance.Create)
	attendance.POST("/bulk", can(authz.ResourceAttendance, authz.ActionCreate), h.Attendance.Bulk)
	attendance.GET("", can(authz.ResourceAttendance, authz.ActionRead), h.Attendance.List)
	attendance.GET("/student/:studentId", can(authz.ResourceAttendance, authz.ActionRead), h.Attendance.ByStudent)
	attendance.GET("/course/:courseId", can(authz.ResourceAttendance, authz.ActionRead), h.Attendance.ByCourse)
	attendance.GET("/course/:courseId/export", can(authz.ResourceAttendance, authz.ActionExport), h.Export.CourseAttendance)
	attendance.PUT("/:id", can(authz.ResourceAttendance, authz.ActionUpdate), h.Attendance.Update)
	attendance.DELETE("/:id", can(authz.ResourceAttendance, authz.ActionDelete), h.Attendance.Delete)

	marks := secured.Group("/marks")
	marks.POST("", can(authz.ResourceMarks, authz.ActionCreate), h.Marks.Create)
	marks.GET("", can(authz.ResourceMarks, authz.ActionRead), h.Marks.List)
	marks.GET("/student/:studentId", can(authz.ResourceMarks, authz.ActionRead), h.Marks.ByStudent)
	marks.GET("/student/:studentId/export", can(authz.ResourceMarks, authz.ActionExport), h.Export.Transcript)
	marks.GET("/course/:courseId", can(authz.ResourceMarks, authz.ActionRead), h.Marks.ByCourse)
	marks.PUT("/:id", can(authz.ResourceMarks, authz.ActionUpdate), h.Marks.Update)
	marks.DELETE("/:id", can(authz.ResourceMarks, authz.ActionDelete), h.Marks.Delete)

	// ownership of a single leave is checked by the service against the stored requester
	leaves := secured.Group("/leaves")
	leaves.POST("", can(authz.ResourceLeave, authz.ActionCreate), h.Leave.Create)
	leaves.GET("", can(authz.ResourceLeave, authz.ActionListAll), h.Leave.List)
	leaves.GET("/pending", can(authz.ResourceLeave, authz.ActionListAll), h.Leave.Pending)
	leaves.GET("/my-leaves", h.Leave.Mine)
	leaves.GET("/user/:userId", can(authz.ResourceLeave, authz.ActionListAll), h.Leave.ByUser)
	leaves.GET("/:id", h.Leave.Get)
	leaves.PUT("/:id", h.Leave.Update)
	leaves.PATCH("/:id/approve", can(authz.ResourceLeave, authz.ActionApprove), h.Leave.Approve)
	leaves.PATCH("/:id/reject", can(authz.ResourceLeave, authz.ActionApprove), h.Leave.Reject)
	leaves.DELETE("/:id", h.Leave.Delete)

	announcements := secured.Group("/announcements")
	announcements.POST("", can(authz.ResourceAnnouncement, authz.ActionCreate), audit(models.AuditActionAnnouncement, "announcement"), h.Announcement.Create)
	announcements.GET("", can(authz.ResourceAnnouncement, authz.ActionRead), h.Announcement.List)
	announcements.GET("/role/:role", can(authz.ResourceAnnouncement, authz.ActionRead), h.Announcement.ByRole)
	announcements.GET("/:id", can(authz.ResourceAnnouncement, authz.ActionRead), h.Announcement.Get)
	announcements.PUT("/:id", can(authz.ResourceAnnouncement, authz.ActionUpdate), audit(models.AuditActionAnnouncement, "announcement"), h.Announcement.Update)
	announcements.DELETE("/:id", can(authz.ResourceAnnouncement, authz.ActionDelete), audit(models.AuditActionAnnouncement, "announcement"), h.Announcement.Delete)

	if opts.EnableDashboard {
		secured.GET("/dashboard/admin", can(authz.ResourceDashboard, authz.ActionRead), h.Dashboard.Admin)
	}

	return r
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || prefix == "/" {
		return "/"
	}
	return "/" + strings.Trim(prefix, "/")
}
