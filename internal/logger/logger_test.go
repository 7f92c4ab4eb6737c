package logger

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	flags := log.Flags()
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	fn()
	return buf.String()
}

func TestFormatFields(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		want   string
	}{
		{"empty", nil, ""},
		{"sorted keys", Fields{"b": 1, "a": "x"}, "{a=x, b=1}"},
		{"floats", Fields{"ratio": 0.5}, "{ratio=0.50}"},
		{"other values", Fields{"ok": true, "n": int64(7)}, "{n=7, ok=true}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatFields(tt.fields))
		})
	}
}

func TestLevels(t *testing.T) {
	out := captureLog(t, func() {
		Info("parsed", Fields{"events": 4})
		Warn("slow", nil)
		Debug("tree", Fields{"depth": 2})
		Error("failed", errors.New("boom"), Fields{"request_id": "r1"})
	})

	assert.Contains(t, out, "[INFO] parsed {events=4}")
	assert.Contains(t, out, "[WARN] slow")
	assert.Contains(t, out, "[DEBUG] tree {depth=2}")
	assert.Contains(t, out, "[ERROR] failed: boom {request_id=r1}")
}

func TestLogAPIRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/parse", nil)
	c.Set("request_id", "abc")

	out := captureLog(t, func() {
		LogAPIRequest(c, 1500*time.Millisecond, 200, nil)
	})
	assert.Contains(t, out, "duration_ms=1500")
	assert.Contains(t, out, "path=/api/v1/parse")
	assert.Contains(t, out, "request_id=abc")
	assert.Contains(t, out, "status_code=200")

	fields := WithContext(c)
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "abc", fields["request_id"])
}

func TestLogParseRequest(t *testing.T) {
	out := captureLog(t, func() {
		LogParseRequest(context.Background(), "events", 11, 4, 2*time.Millisecond, Fields{"request_id": "r2"})
	})
	assert.Contains(t, out, "[INFO] Parse request completed")
	assert.Contains(t, out, "event_count=4")
	assert.Contains(t, out, "mode=events")
	assert.Contains(t, out, "pattern_length=11")
}

func TestNotationFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, NotationFields(c))

	c.Set(KeyParseMode, "events")
	c.Set(KeyEventCount, 4)
	assert.Equal(t, Fields{KeyParseMode: "events", KeyEventCount: 4}, NotationFields(c))
}
