package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/lancekit/lancekit/internal/client"
	clientdomain "github.com/lancekit/lancekit/internal/client/domain"
	"github.com/lancekit/lancekit/internal/clock"
	"github.com/lancekit/lancekit/internal/config"
	"github.com/lancekit/lancekit/internal/expense"
	expensedomain "github.com/lancekit/lancekit/internal/expense/domain"
	"github.com/lancekit/lancekit/internal/invoice"
	invoicedomain "github.com/lancekit/lancekit/internal/invoice/domain"
	"github.com/lancekit/lancekit/internal/observability"
	obsmiddleware "github.com/lancekit/lancekit/internal/observability/logger"
	obsmetrics "github.com/lancekit/lancekit/internal/observability/metrics"
	obstracing "github.com/lancekit/lancekit/internal/observability/tracing"
	"github.com/lancekit/lancekit/internal/project"
	projectdomain "github.com/lancekit/lancekit/internal/project/domain"
	"github.com/lancekit/lancekit/internal/providers/pdf"
	"github.com/lancekit/lancekit/internal/scheduler"
	"github.com/lancekit/lancekit/internal/task"
	taskdomain "github.com/lancekit/lancekit/internal/task/domain"
	"github.com/lancekit/lancekit/internal/timeentry"
	timeentrydomain "github.com/lancekit/lancekit/internal/timeentry/domain"
	"github.com/lancekit/lancekit/internal/timer"
	timerdomain "github.com/lancekit/lancekit/internal/timer/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	clock.Module,
	fx.Provide(registerGin),
	client.Module,
	project.Module,
	task.Module,
	timeentry.Module,
	expense.Module,
	invoice.Module,
	timer.Module,
	pdf.Module,
	scheduler.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	clientSvc    clientdomain.Service
	projectSvc   projectdomain.Service
	taskSvc      taskdomain.Service
	timeEntrySvc timeentrydomain.Service
	expenseSvc   expensedomain.Service
	invoiceSvc   invoicedomain.Service
	timerSvc     timerdomain.Service
	pdfProvider  pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	ClientSvc    clientdomain.Service
	ProjectSvc   projectdomain.Service
	TaskSvc      taskdomain.Service
	TimeEntrySvc timeentrydomain.Service
	ExpenseSvc   expensedomain.Service
	InvoiceSvc   invoicedomain.Service
	TimerSvc     timerdomain.Service
	PDFProvider  pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		clientSvc:    p.ClientSvc,
		projectSvc:   p.ProjectSvc,
		taskSvc:      p.TaskSvc,
		timeEntrySvc: p.TimeEntrySvc,
		expenseSvc:   p.ExpenseSvc,
		invoiceSvc:   p.InvoiceSvc,
		timerSvc:     p.TimerSvc,
		pdfProvider:  p.PDFProvider,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	clients := api.Group("/clients")
	{
		clients.GET("", s.ListClients)
		clients.POST("", s.CreateClient)
		clients.GET("/:id", s.GetClientByID)
		clients.PUT("/:id", s.UpdateClient)
		clients.DELETE("/:id", s.DeleteClient)
	}

	projects := api.Group("/projects")
	{
		projects.GET("", s.ListProjects)
		projects.POST("", s.CreateProject)
		projects.GET("/:id", s.GetProjectByID)
		projects.PUT("/:id", s.UpdateProject)
		projects.DELETE("/:id", s.DeleteProject)
		projects.GET("/:id/summary", s.GetProjectSummary)

		projects.GET("/:id/timer", s.GetTimer)
		projects.POST("/:id/timer/start", s.StartTimer)
		projects.POST("/:id/timer/pause", s.PauseTimer)
		projects.POST("/:id/timer/resume", s.ResumeTimer)
		projects.POST("/:id/timer/stop", s.StopTimer)
	}

	tasks := api.Group("/tasks")
	{
		tasks.GET("", s.ListTasks)
		tasks.POST("", s.CreateTask)
		tasks.GET("/:id", s.GetTaskByID)
		tasks.PUT("/:id", s.UpdateTask)
		tasks.PATCH("/:id/status", s.SetTaskStatus)
		tasks.DELETE("/:id", s.DeleteTask)
	}

	timeEntries := api.Group("/time-entries")
	{
		timeEntries.GET("", s.ListTimeEntries)
		timeEntries.POST("", s.CreateTimeEntry)
		timeEntries.GET("/:id", s.GetTimeEntryByID)
		timeEntries.PUT("/:id", s.UpdateTimeEntry)
		timeEntries.DELETE("/:id", s.DeleteTimeEntry)
	}

	expenses := api.Group("/expenses")
	{
		expenses.GET("", s.ListExpenses)
		expenses.POST("", s.CreateExpense)
		expenses.GET("/:id", s.GetExpenseByID)
		expenses.PUT("/:id", s.UpdateExpense)
		expenses.DELETE("/:id", s.DeleteExpense)
	}

	invoices := api.Group("/invoices")
	{
		invoices.GET("", s.ListInvoices)
		invoices.POST("", s.CreateInvoice)
		invoices.GET("/:id", s.GetInvoiceByID)
		invoices.PUT("/:id", s.UpdateInvoice)
		invoices.DELETE("/:id", s.DeleteInvoice)
		invoices.POST("/:id/payments", s.RecordInvoicePayment)
		invoices.GET("/:id/pdf", s.DownloadInvoicePDF)
	}
}
