package api

import (
	"net/http"
	"strconv"

	"CultureSync/internal/model"
	"CultureSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReconcileHandler 直接提交候选事件入库（爬虫推送模式）
type ReconcileHandler struct {
	reconciler *service.ReconcileService
	logger     *logrus.Logger
}

func NewReconcileHandler(reconciler *service.ReconcileService, logger *logrus.Logger) *ReconcileHandler {
	return &ReconcileHandler{
		reconciler: reconciler,
		logger:     logger,
	}
}

// ReconcileRequest 请求体
type ReconcileRequest struct {
	CityID           uint64                `json:"city_id"`
	VenueName        string                `json:"venue_name"`
	DefaultSourceURL string                `json:"default_source_url"`
	Source           string                `json:"source"`
	Organizer        string                `json:"organizer"` // 非空时覆盖所有候选事件的主办方
	Candidates       []*model.RawCandidate `json:"candidates" binding:"required"`
}

// Reconcile 对账一批候选事件
// POST /api/venues/:venue_id/reconcile
func (h *ReconcileHandler) Reconcile(c *gin.Context) {
	venueID, err := strconv.ParseUint(c.Param("venue_id"), 10, 64)
	if err != nil || venueID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue_id"})
		return
	}
	var body ReconcileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	source := body.Source
	if source == "" {
		source = "api"
	}

	req := &service.ReconcileRequest{
		Source:           source,
		Candidates:       body.Candidates,
		VenueID:          venueID,
		CityID:           body.CityID,
		VenueName:        body.VenueName,
		DefaultSourceURL: body.DefaultSourceURL,
	}
	if body.Organizer != "" {
		organizer := body.Organizer
		req.Enrich = func(ev *model.EventCandidate) {
			o := organizer
			ev.Organizer = &o
		}
	}

	result, err := h.reconciler.Reconcile(c.Request.Context(), req)
	if err != nil {
		h.logger.WithError(err).WithField("venue_id", venueID).Error("Reconcile failed")
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
