package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"CultureSync/internal/model"
	"CultureSync/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrEventNotFound 按 event_uuid 未找到规范事件
var ErrEventNotFound = errors.New("事件不存在")

// EventService 面向前端的规范事件查询服务
type EventService struct {
	canonicalRepo repository.CanonicalRepository
	runRepo       repository.IngestionRunRepository
	logger        *logrus.Logger
}

func NewEventService(canonicalRepo repository.CanonicalRepository, runRepo repository.IngestionRunRepository, logger *logrus.Logger) *EventService {
	return &EventService{
		canonicalRepo: canonicalRepo,
		runRepo:       runRepo,
		logger:        logger,
	}
}

// EventView 规范事件对外展示结构，日期格式 YYYY-MM-DD
type EventView struct {
	EventUUID            string  `json:"event_uuid"`
	Title                string  `json:"title"`
	Description          *string `json:"description,omitempty"`
	EventType            string  `json:"event_type"`
	StartDate            string  `json:"start_date,omitempty"`
	EndDate              string  `json:"end_date,omitempty"`
	StartTime            *string `json:"start_time,omitempty"`
	EndTime              *string `json:"end_time,omitempty"`
	Location             *string `json:"location,omitempty"`
	SourceURL            *string `json:"source_url,omitempty"`
	ImageURL             *string `json:"image_url,omitempty"`
	Organizer            *string `json:"organizer,omitempty"`
	IsOnline             bool    `json:"is_online"`
	RegistrationRequired bool    `json:"registration_required"`
	RegistrationURL      *string `json:"registration_url,omitempty"`
	RegistrationInfo     *string `json:"registration_info,omitempty"`
	Language             string  `json:"language"`
	IsBabyFriendly       bool    `json:"is_baby_friendly"`
	VenueID              uint64  `json:"venue_id"`
	CityID               uint64  `json:"city_id"`
	UpdatedAt            int64   `json:"updated_at"` // 毫秒时间戳
}

// EventListResult 列表返回
type EventListResult struct {
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Total    int64       `json:"total"`
	Items    []EventView `json:"items"`
}

// RunView 执行记录对外展示结构
type RunView struct {
	RunUUID     string         `json:"run_uuid"`
	Source      string         `json:"source"`
	VenueID     uint64         `json:"venue_id"`
	CityID      uint64         `json:"city_id"`
	Total       int            `json:"total"`
	Created     int            `json:"created"`
	Updated     int            `json:"updated"`
	Unchanged   int            `json:"unchanged"`
	Skipped     int            `json:"skipped"`
	Errors      int            `json:"errors"`
	SkipReasons map[string]int `json:"skip_reasons"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
}

// ListEvents 按条件分页返回规范事件
func (s *EventService) ListEvents(ctx context.Context, filter repository.EventFilter, page, pageSize int) (*EventListResult, error) {
	list, total, err := s.canonicalRepo.ListEvents(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}
	result := &EventListResult{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Items:    make([]EventView, 0, len(list)),
	}
	for _, ev := range list {
		result.Items = append(result.Items, toEventView(ev))
	}
	return result, nil
}

// GetEvent 事件详情
func (s *EventService) GetEvent(ctx context.Context, eventUUID string) (*EventView, error) {
	ev, err := s.canonicalRepo.GetEventByUUID(ctx, eventUUID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	view := toEventView(ev)
	return &view, nil
}

// ListRuns 最近的入库执行记录
func (s *EventService) ListRuns(ctx context.Context, venueID uint64, limit int) ([]RunView, error) {
	runs, err := s.runRepo.ListRuns(ctx, venueID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]RunView, 0, len(runs))
	for _, r := range runs {
		reasons := map[string]int{}
		if len(r.SkipReasons) > 0 {
			if err := json.Unmarshal(r.SkipReasons, &reasons); err != nil {
				s.logger.WithError(err).WithField("run_uuid", r.RunUUID).Warn("解析跳过原因失败")
			}
		}
		out = append(out, RunView{
			RunUUID:     r.RunUUID,
			Source:      r.Source,
			VenueID:     r.VenueID,
			CityID:      r.CityID,
			Total:       r.Total,
			Created:     r.Created,
			Updated:     r.Updated,
			Unchanged:   r.Unchanged,
			Skipped:     r.Skipped,
			Errors:      r.Errors,
			SkipReasons: reasons,
			StartedAt:   r.StartedAt,
			FinishedAt:  r.FinishedAt,
		})
	}
	return out, nil
}

func toEventView(ev *model.CanonicalEvent) EventView {
	return EventView{
		EventUUID:            ev.EventUUID,
		Title:                ev.Title,
		Description:          ev.Description,
		EventType:            ev.EventType,
		StartDate:            formatDate(ev.StartDate),
		EndDate:              formatDate(ev.EndDate),
		StartTime:            ev.StartTime,
		EndTime:              ev.EndTime,
		Location:             ev.Location,
		SourceURL:            ev.SourceURL,
		ImageURL:             ev.ImageURL,
		Organizer:            ev.Organizer,
		IsOnline:             ev.IsOnline,
		RegistrationRequired: ev.RegistrationRequired,
		RegistrationURL:      ev.RegistrationURL,
		RegistrationInfo:     ev.RegistrationInfo,
		Language:             ev.Language,
		IsBabyFriendly:       ev.IsBabyFriendly,
		VenueID:              ev.VenueID,
		CityID:               ev.CityID,
		UpdatedAt:            ev.UpdatedAt.UnixMilli(),
	}
}

func formatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format("2006-01-02")
}
