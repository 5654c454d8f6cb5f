package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/livemusiclocator/allptvlml/internal/logging"
)

// LogHandler exposes the in-memory log buffer.
type LogHandler struct {
	buffer *logging.Buffer
}

// NewLogHandler creates a new log handler
func NewLogHandler(buffer *logging.Buffer) *LogHandler {
	return &LogHandler{
		buffer: buffer,
	}
}

// Logs returns the buffered log entries, oldest first.
// GET /api/logs
func (h *LogHandler) Logs(c *gin.Context) {
	c.JSON(http.StatusOK, h.buffer.Snapshot())
}
