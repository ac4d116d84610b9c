package handler

import (
	"embed"
	"html/template"
	"time"

	"tickerdash/internal/dashboard"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler serves the dashboard page and the JSON API over one data source.
type Handler struct {
	tracer trace.Tracer
	data   dashboard.Fetcher
	logger *zap.Logger
	now    func() time.Time
}

func New(tracer trace.Tracer, data dashboard.Fetcher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		tracer: tracer,
		data:   data,
		logger: logger,
		now:    time.Now,
	}
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(Templates())

	r.GET("/", h.Index)
	r.GET("/dashboard", h.Dashboard)
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/series/:symbol", h.GetSeries)
	api.GET("/snapshot/:symbol", h.GetSnapshot)
	api.GET("/metrics/:symbol", h.GetMetrics)
	api.GET("/chart/:symbol", h.GetChart)
	api.GET("/export/:symbol", h.ExportCSV)
}
