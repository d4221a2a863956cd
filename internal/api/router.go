package api

import (
	"CultureSync/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Handlers 需要注册的全部处理器
type Handlers struct {
	Reconcile *ReconcileHandler
	Sync      *SyncHandler
	Events    *EventHandler
}

// RegisterRoutes 注册业务路由与 /metrics
func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.POST("/api/venues/:venue_id/reconcile", h.Reconcile.Reconcile)
	r.POST("/sync/source/:source", h.Sync.SyncSourceHandler)

	r.GET("/api/events", h.Events.ListEvents)
	r.GET("/api/events/:event_uuid", h.Events.GetEvent)
	r.GET("/api/runs", h.Events.ListRuns)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}
