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
	"github.com/rpmessner/uzu-parser/internal/sheet"
)

const modeSheet = "sheet"

type SheetHandler struct {
	cfg      *config.Config
	recorder parseRecorder
}

func NewSheetHandler(cfg *config.Config, cloudwatch *metrics.Client, stats *metrics.ParseStats) *SheetHandler {
	return &SheetHandler{
		cfg:      cfg,
		recorder: newParseRecorder(cloudwatch, stats),
	}
}

type SheetRequest struct {
	Sheet string `json:"sheet" binding:"required"`
}

type SheetResponse struct {
	Patterns []sheet.Pattern `json:"patterns"`
}

// Parse parses a sheet of named patterns
func (h *SheetHandler) Parse(c *gin.Context) {
	var req SheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Sheet) > maxPatternBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("sheet exceeds %d bytes", maxPatternBytes),
		})
		return
	}

	// A sheet parser keeps per-call state, so each request gets its own
	sheetParser, err := sheet.NewParser(
		sheet.WithParseOptions(parser.WithMaxDepth(h.cfg.MaxDepth)),
		sheet.WithInterpretOptions(interpreter.WithMaxEvents(h.cfg.MaxEvents)),
	)
	if err != nil {
		logger.Error("Failed to create sheet parser", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create sheet parser"})
		return
	}

	c.Set(logger.KeyParseMode, modeSheet)
	c.Set(logger.KeyPatternBytes, len(req.Sheet))
	ctx := c.Request.Context()
	start := time.Now()
	patterns, err := sheetParser.Parse(ctx, req.Sheet)
	duration := time.Since(start)

	if err != nil {
		h.recorder.record(ctx, modeSheet, len(req.Sheet), 0, duration, false)

		var nerr *sheet.NotationError
		if errors.As(err, &nerr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   err.Error(),
				"pattern": nerr.Pattern,
				"details": nerr.Err,
			})
			return
		}

		var lerr *interpreter.LimitError
		if errors.As(err, &lerr) {
			h.recorder.stats.RecordLimit()
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   err.Error(),
				"details": lerr,
			})
			return
		}

		logger.Warn("Sheet rejected", logger.Fields{"request_id": c.GetString("request_id"), "error": err.Error()})
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventCount := 0
	for _, p := range patterns {
		eventCount += len(p.Events)
	}
	h.recorder.record(ctx, modeSheet, len(req.Sheet), eventCount, duration, true)
	c.Set(logger.KeyEventCount, eventCount)
	logger.LogParseRequest(ctx, modeSheet, len(req.Sheet), eventCount, duration, logger.WithContext(c))

	c.JSON(http.StatusOK, SheetResponse{Patterns: patterns})
}
