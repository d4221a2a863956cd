package api

import (
	"errors"
	"net/http"

	"CultureSync/internal/adapter"
	"CultureSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SyncHandler struct {
	syncService *service.SyncService
	logger      *logrus.Logger
}

func NewSyncHandler(syncService *service.SyncService, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		logger:      logger,
	}
}

// SyncSourceHandler 立即同步指定数据源
// POST /sync/source/:source
func (h *SyncHandler) SyncSourceHandler(c *gin.Context) {
	name := c.Param("source")

	result, err := h.syncService.SyncSource(c.Request.Context(), name)
	if err != nil {
		h.logger.WithError(err).WithField("source", name).Error("同步数据源失败")
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// statusOf 将服务层错误映射为 HTTP 状态码
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrSyncInProgress):
		return http.StatusConflict
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, service.ErrEventNotFound), errors.Is(err, adapter.ErrUnknownSource):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
