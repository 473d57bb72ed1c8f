package handlers

import (
	"net/http"

	"github.com/MarcosRG/bikesul-backend/internal/cache"
	"github.com/MarcosRG/bikesul-backend/internal/store"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	store *store.Store
	cache *cache.Cache
}

func NewHealthHandler(st *store.Store, cache *cache.Cache) *HealthHandler {
	return &HealthHandler{
		store: st,
		cache: cache,
	}
}

func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK

	dbStatus := "ok"
	if err := h.store.Ping(); err != nil {
		dbStatus = err.Error()
		status = http.StatusServiceUnavailable
	}

	redisStatus := "ok"
	if err := h.cache.Ping(c.Request.Context()); err != nil {
		redisStatus = err.Error()
	}

	c.JSON(status, gin.H{
		"database": dbStatus,
		"redis":    redisStatus,
	})
}
