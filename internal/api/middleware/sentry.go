package middleware

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rpmessner/uzu-parser/internal/logger"
	"github.com/rpmessner/uzu-parser/internal/metrics"
)

const (
	httpStatusBadRequest          = http.StatusBadRequest
	httpStatusInternalServerError = http.StatusInternalServerError
	sentryFlushTimeout            = 2 * time.Second

	// RequestIDHeader carries the request ID back to the client
	RequestIDHeader = "X-Request-ID"
)

var sentryMetrics = metrics.NewSentryMetrics()

// route is the matched route template, so "/api/v1/euclid?k=3" and
// "/api/v1/euclid?k=5" report as one endpoint. Unmatched paths report as-is.
func route(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return c.Request.URL.Path
}

// RequestTracking assigns a request ID, then logs each request together
// with the parse details the handler left on the context
func RequestTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.Scope().SetTag("request_id", requestID)
		}

		start := time.Now()
		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		fields := logger.NotationFields(c)
		fields["request_id"] = requestID
		fields["duration_ms"] = duration.Milliseconds()
		fields["status_code"] = statusCode
		fields["method"] = c.Request.Method
		fields["route"] = route(c)
		fields["client_ip"] = c.ClientIP()

		switch {
		case statusCode >= httpStatusInternalServerError:
			logger.Error("Request failed with server error", nil, fields)
		case statusCode == http.StatusUnprocessableEntity:
			logger.Warn("Pattern rejected", fields)
		case statusCode >= httpStatusBadRequest:
			logger.Warn("Request failed with client error", fields)
		default:
			logger.Info("Request completed", fields)
		}

		sentryMetrics.RecordAPIRequest(c.Request.Context(), route(c), statusCode, duration)
	}
}

// SentryMiddleware returns the Sentry middleware with custom configuration
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         sentryFlushTimeout,
	})
}

// RecoverWithSentry recovers from panics during parsing and sends them to
// Sentry along with the mode and size of the pattern being handled
func RecoverWithSentry() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				notation := logger.NotationFields(c)

				if hub := sentrygin.GetHubFromContext(c); hub != nil {
					hub.WithScope(func(scope *sentry.Scope) {
						scope.SetRequest(c.Request)
						scope.SetTag("route", route(c))
						if mode, ok := notation[logger.KeyParseMode].(string); ok {
							scope.SetTag("notation.mode", mode)
						}
						scope.SetContext("notation", map[string]interface{}(notation))
						hub.RecoverWithContext(c.Request.Context(), err)
					})
				}

				fields := logger.NotationFields(c)
				fields["request_id"] = c.GetString("request_id")
				fields["error"] = err
				fields["route"] = route(c)
				logger.Error("Panic recovered", nil, fields)

				c.JSON(httpStatusInternalServerError, gin.H{
					"error":      "Internal server error",
					"request_id": c.GetString("request_id"),
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
