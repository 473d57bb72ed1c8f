package handlers

import (
	"context"
	"net/http"

	"github.com/MarcosRG/bikesul-backend/internal/logger"
	"github.com/MarcosRG/bikesul-backend/internal/sync"

	"github.com/gin-gonic/gin"
)

// SyncRunner is implemented by the sync orchestrator.
type SyncRunner interface {
	Run(ctx context.Context) (sync.Summary, error)
}

type SyncHandler struct {
	syncer SyncRunner
	logger *logger.Logger
}

func NewSyncHandler(syncer SyncRunner, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		syncer: syncer,
		logger: logger,
	}
}

// Run triggers a sync and reports its counters. Partial failures still
// return 200 with the error count; only an aborted run fails the request.
func (h *SyncHandler) Run(c *gin.Context) {
	summary, err := h.syncer.Run(c.Request.Context())
	if err != nil {
		h.logger.Error("Sync run failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Sync failed",
			"fetched": summary.Fetched,
			"synced":  summary.Synced,
			"errors":  summary.Errors,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sync completed",
		"fetched": summary.Fetched,
		"synced":  summary.Synced,
		"errors":  summary.Errors,
	})
}
