package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rpmessner/uzu-parser/internal/config"
	"github.com/rpmessner/uzu-parser/internal/logger"
	"github.com/rpmessner/uzu-parser/internal/metrics"
	"github.com/rpmessner/uzu-parser/internal/notation/interpreter"
	"github.com/rpmessner/uzu-parser/internal/notation/parser"
)

type ParseHandler struct {
	cfg      *config.Config
	recorder parseRecorder
}

func NewParseHandler(cfg *config.Config, cloudwatch *metrics.Client, stats *metrics.ParseStats) *ParseHandler {
	return &ParseHandler{
		cfg:      cfg,
		recorder: newParseRecorder(cloudwatch, stats),
	}
}

type ParseRequest struct {
	Pattern string `json:"pattern"`
	Mode    string `json:"mode"`
}

// Parse parses a pattern and returns its events, its AST, or both
func (h *ParseHandler) Parse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = modeEvents
	}
	if mode != modeEvents && mode != modeAST && mode != modeBoth {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("invalid mode %q: expected %s, %s or %s", mode, modeEvents, modeAST, modeBoth),
		})
		return
	}
	if len(req.Pattern) > maxPatternBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("pattern exceeds %d bytes", maxPatternBytes),
		})
		return
	}

	c.Set(logger.KeyParseMode, mode)
	c.Set(logger.KeyPatternBytes, len(req.Pattern))
	ctx := c.Request.Context()
	start := time.Now()

	root, err := parser.Parse(req.Pattern, parser.WithMaxDepth(h.cfg.MaxDepth))
	if err != nil {
		h.recorder.record(ctx, mode, len(req.Pattern), 0, time.Since(start), false)

		var perr *parser.Error
		if errors.As(err, &perr) {
			fields := logger.WithContext(c)
			fields["offset"] = perr.Offset
			logger.Warn("Pattern rejected: "+perr.Message, fields)

			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   perr.Message,
				"details": perr,
			})
			return
		}

		logger.Error("Parse failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{}
	eventCount := 0
	if mode == modeEvents || mode == modeBoth {
		events, err := interpreter.Interpret(root, interpreter.WithMaxEvents(h.cfg.MaxEvents))
		if err != nil {
			h.recorder.record(ctx, mode, len(req.Pattern), 0, time.Since(start), false)
			h.rejectLimit(c, err)
			return
		}
		eventCount = len(events)
		response["events"] = events
	}
	if mode == modeAST || mode == modeBoth {
		response["ast"] = root
	}

	duration := time.Since(start)
	h.recorder.record(ctx, mode, len(req.Pattern), eventCount, duration, true)
	c.Set(logger.KeyEventCount, eventCount)
	logger.LogParseRequest(ctx, mode, len(req.Pattern), eventCount, duration, logger.WithContext(c))

	c.JSON(http.StatusOK, response)
}

// rejectLimit answers a pattern whose expansion failed; an exceeded event
// budget gets 422
func (h *ParseHandler) rejectLimit(c *gin.Context, err error) {
	var lerr *interpreter.LimitError
	if errors.As(err, &lerr) {
		h.recorder.stats.RecordLimit()
		logger.Warn("Pattern rejected: "+lerr.Error(), logger.WithContext(c))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   lerr.Error(),
			"details": lerr,
		})
		return
	}

	logger.Error("Interpret failed", err, logger.WithContext(c))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
