package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	requestEventName   = "menu.api.request"
	requestEventDomain = "app"
	requestSpanName    = "menu.api.request"
	tracerName         = "menu-planner/api"
	metricsContextKey  = "menu.request.metrics"
	observabilityEvent = "observability.event"
	attrPrefix         = "menu.request."
)

type requestMetrics struct {
	logger     *log.Logger
	span       trace.Span
	route      string
	start      time.Time
	counts     map[string]int
	errorStage string
}

func newRequestMetrics(ctx context.Context, logger *log.Logger, route string) (*requestMetrics, context.Context) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, requestSpanName,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("http.route", route)),
	)
	return &requestMetrics{
		logger: logger,
		span:   span,
		route:  route,
		start:  time.Now(),
		counts: map[string]int{},
	}, ctx
}

// SetCount records a named counter, e.g. commands_applied.
func (m *requestMetrics) SetCount(name string, n int) {
	if m == nil {
		return
	}
	if n < 0 {
		n = 0
	}
	m.counts[name] = n
}

func (m *requestMetrics) SetErrorStage(stage string) {
	if m == nil || stage == "" {
		return
	}
	m.errorStage = stage
}

// Log ends the span and emits one observability.event entry carrying the same
// attributes.
func (m *requestMetrics) Log(status int, err error) {
	if m == nil {
		return
	}
	severityText, severityNumber := severityForStatus(status, err)
	total := durationToMillis(time.Since(m.start))

	attrs := map[string]any{
		"http.route":            m.route,
		"http.status_code":      status,
		attrPrefix + "total_ms": total,
	}
	spanAttrs := []attribute.KeyValue{
		attribute.String("http.route", m.route),
		attribute.Int("http.status_code", status),
		attribute.Float64(attrPrefix+"total_ms", total),
	}
	for name, n := range m.counts {
		attrs[attrPrefix+name] = n
		spanAttrs = append(spanAttrs, attribute.Int(attrPrefix+name, n))
	}
	if m.errorStage != "" {
		attrs[attrPrefix+"error_stage"] = m.errorStage
		spanAttrs = append(spanAttrs, attribute.String(attrPrefix+"error_stage", m.errorStage))
	}

	if m.span != nil {
		eventAttrs := append([]attribute.KeyValue{
			attribute.String("event.name", requestEventName),
			attribute.String("event.domain", requestEventDomain),
			attribute.String("severity_text", severityText),
			attribute.Int("severity_number", severityNumber),
		}, spanAttrs...)
		if err != nil {
			eventAttrs = append(eventAttrs, attribute.String("error.message", err.Error()))
		}
		m.span.SetAttributes(spanAttrs...)
		m.span.AddEvent(observabilityEvent, trace.WithAttributes(eventAttrs...))
		switch {
		case err != nil:
			m.span.RecordError(err)
			m.span.SetStatus(codes.Error, err.Error())
		case status >= http.StatusInternalServerError:
			m.span.SetStatus(codes.Error, http.StatusText(status))
		default:
			m.span.SetStatus(codes.Ok, "")
		}
		m.span.End()
	}

	if m.logger == nil {
		return
	}
	fields := log.Fields{
		"event.name":      requestEventName,
		"event.domain":    requestEventDomain,
		"severity_text":   severityText,
		"severity_number": severityNumber,
		"attributes":      attrs,
	}
	if m.span != nil {
		if sc := m.span.SpanContext(); sc.IsValid() {
			fields["trace_id"] = sc.TraceID().String()
			fields["span_id"] = sc.SpanID().String()
		}
	}
	entry := m.logger.WithFields(fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Log(levelForSeverity(severityText), observabilityEvent)
}

func severityForStatus(status int, err error) (string, int) {
	switch {
	case err != nil || status >= http.StatusInternalServerError:
		return "ERROR", 17
	case status >= http.StatusBadRequest:
		return "WARN", 13
	default:
		return "INFO", 9
	}
}

func levelForSeverity(text string) log.Level {
	switch text {
	case "ERROR":
		return log.ErrorLevel
	case "WARN":
		return log.WarnLevel
	default:
		return log.InfoLevel
	}
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}

// RequestMetrics wraps every request in a span and logs one observability
// event when the handler returns.
func RequestMetrics(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			metrics, ctx := newRequestMetrics(c.Request().Context(), logger, c.Path())
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set(metricsContextKey, metrics)

			err := next(c)
			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			metrics.Log(status, err)
			return err
		}
	}
}

func metricsFrom(c echo.Context) *requestMetrics {
	m, _ := c.Get(metricsContextKey).(*requestMetrics)
	return m
}
