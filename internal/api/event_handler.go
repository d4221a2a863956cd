package api

import (
	"net/http"
	"strconv"
	"time"

	"CultureSync/internal/repository"
	"CultureSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// EventHandler 提供给前端的事件查询接口
type EventHandler struct {
	eventService *service.EventService
	logger       *logrus.Logger
}

func NewEventHandler(eventService *service.EventService, logger *logrus.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		logger:       logger,
	}
}

// ListEvents 事件列表
// GET /api/events?venue_id=1&city_id=1&type=exhibition&from=2025-01-01&to=2025-12-31&baby_friendly=true&page=1&page_size=20
func (h *EventHandler) ListEvents(c *gin.Context) {
	var filter repository.EventFilter
	var err error
	if filter.VenueID, err = queryUint(c, "venue_id"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue_id"})
		return
	}
	if filter.CityID, err = queryUint(c, "city_id"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid city_id"})
		return
	}
	filter.EventType = c.Query("type")
	if filter.From, err = queryDate(c, "from"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return
	}
	if filter.To, err = queryDate(c, "to"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return
	}
	if v := c.Query("baby_friendly"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid baby_friendly"})
			return
		}
		filter.BabyFriendly = &b
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	result, err := h.eventService.ListEvents(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListEvents failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetEvent 事件详情
// GET /api/events/:event_uuid
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventUUID := c.Param("event_uuid")
	if eventUUID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_uuid is required"})
		return
	}
	result, err := h.eventService.GetEvent(c.Request.Context(), eventUUID)
	if err != nil {
		if statusOf(err) == http.StatusInternalServerError {
			h.logger.WithError(err).Error("GetEvent failed")
		}
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListRuns 最近的入库执行记录
// GET /api/runs?venue_id=1&limit=50
func (h *EventHandler) ListRuns(c *gin.Context) {
	venueID, err := queryUint(c, "venue_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue_id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	runs, err := h.eventService.ListRuns(c.Request.Context(), venueID, limit)
	if err != nil {
		h.logger.WithError(err).Error("ListRuns failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": runs})
}

func queryUint(c *gin.Context, key string) (uint64, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseUint(v, 10, 64)
}

func queryDate(c *gin.Context, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
