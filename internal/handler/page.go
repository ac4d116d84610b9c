package handler

import (
	"html/template"
	"net/http"
	"time"

	"tickerdash/internal/chart"
	"tickerdash/internal/dashboard"
	"tickerdash/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type pageData struct {
	Title            string
	Intro            string
	Footer           string
	View             dashboard.View
	Mode             string
	Start            string
	End              string
	Periods          []domain.Period
	Intervals        []domain.Interval
	Overlays         []chart.Overlay
	SelectedOverlays string
	FigureJSON       template.JS
}

func (h *Handler) page(view dashboard.View) pageData {
	data := pageData{
		Title:            dashboard.Title,
		Intro:            dashboard.Intro,
		Footer:           dashboard.Footer,
		View:             view,
		Mode:             view.Inputs.Mode.String(),
		Start:            view.Inputs.Start.Format(time.DateOnly),
		End:              view.Inputs.End.Format(time.DateOnly),
		Periods:          domain.SupportedPeriods,
		Intervals:        domain.SupportedIntervals,
		Overlays:         chart.SupportedOverlays,
		SelectedOverlays: view.Inputs.OverlayList(),
	}
	if view.State == dashboard.StateSuccess {
		raw, err := chart.JSON(view.Figure)
		if err != nil {
			h.logger.Warn("encode figure", zap.Error(err))
		} else {
			// encoding/json escapes <, > and & so the literal cannot close the script.
			data.FigureJSON = template.JS(raw)
		}
	}
	return data
}

// Index renders the idle dashboard with default inputs.
func (h *Handler) Index(c *gin.Context) {
	shell := dashboard.NewShell(h.data, h.logger)
	view := shell.View()
	view.Inputs = dashboard.DefaultInputs(h.now())
	c.HTML(http.StatusOK, "dashboard.html", h.page(view))
}

// Dashboard runs the fetch action for the submitted form and renders the
// result, or the idle view with a single error message.
func (h *Handler) Dashboard(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.dashboard")
	defer span.End()

	in := dashboard.DefaultInputs(h.now())
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		view := dashboard.BuildView(dashboard.StateFailed, in, nil, "Invalid input: "+err.Error())
		c.HTML(http.StatusBadRequest, "dashboard.html", h.page(view))
		return
	}
	in = q.apply(in)
	in.Symbol = q.Symbol
	span.SetAttributes(attribute.String("symbol", in.NormalizedSymbol()))

	shell := dashboard.NewShell(h.data, h.logger)
	state := shell.Submit(ctx, in)
	span.SetAttributes(attribute.String("state", state.String()))

	c.HTML(http.StatusOK, "dashboard.html", h.page(shell.View()))
}
