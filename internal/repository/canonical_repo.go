package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"CultureSync/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchKey 身份匹配所需的候选事件键
type MatchKey struct {
	SourceURLKey  string     // 规范化来源链接
	Title         string     // 已去首尾空白的标题
	StartDate     *time.Time // UTC 零点
	StartTime     *string    // HH:MM
	VenueID       uint64
	CityID        uint64
	WebsiteDomain string // 当前场馆官网域名（小写，无 www.）
	ActiveOn      *time.Time // 非空时按 [start_date, end_date] 覆盖该日匹配，替代开始日期相等
}

// EventFilter 规范事件列表筛选
type EventFilter struct {
	VenueID      uint64
	CityID       uint64
	EventType    string
	From         *time.Time // 仍在进行或在此之后开始
	To           *time.Time // 在此之前开始
	BabyFriendly *bool
}

// CanonicalRepository 规范事件仓储。对账流程通过 WithTx 把每条候选事件限定在自己的事务内
type CanonicalRepository interface {
	WithTx(tx *gorm.DB) CanonicalRepository

	// FindBySourceURL 第一层：来源链接 + 场馆 + 城市 + 开始日期（+ 开始时间）
	FindBySourceURL(ctx context.Context, key *MatchKey) (*model.CanonicalEvent, error)
	// FindExhibitionByDomain 第二层：标题 + 开始日期 + 场馆官网域名 + 城市（仅展览）
	FindExhibitionByDomain(ctx context.Context, key *MatchKey) (*model.CanonicalEvent, error)
	// FindByTitle 第三层：标题 + 场馆 + 城市 + 开始日期（+ 开始时间）
	FindByTitle(ctx context.Context, key *MatchKey) (*model.CanonicalEvent, error)

	CreateEvent(ctx context.Context, ev *model.CanonicalEvent) error
	SaveEvent(ctx context.Context, ev *model.CanonicalEvent) error

	ListEvents(ctx context.Context, filter EventFilter, page, pageSize int) ([]*model.CanonicalEvent, int64, error)
	GetEventByUUID(ctx context.Context, eventUUID string) (*model.CanonicalEvent, error)
	CountEvents(ctx context.Context) (int64, error)
}

type canonicalRepository struct {
	db *gorm.DB
}

func NewCanonicalRepository(db *gorm.DB) CanonicalRepository {
	return &canonicalRepository{db: db}
}

func (r *canonicalRepository) WithTx(tx *gorm.DB) CanonicalRepository {
	return &canonicalRepository{db: tx}
}

func (r *canonicalRepository) FindBySourceURL(ctx context.Context, key *MatchKey) (*model.CanonicalEvent, error) {
	if key.SourceURLKey == "" {
		return nil, nil
	}
	db := r.db.WithContext(ctx).
		Where("source_url_key = ? AND venue_id = ? AND city_id = ?", key.SourceURLKey, key.VenueID, key.CityID)
	db = whereStart(db, "", key)
	// 同一链接的循环活动（如每日导览）靠开始时间区分；候选无时间时只匹配同样无时间的记录
	if key.StartTime != nil {
		db = db.Where("start_time = ?", *key.StartTime)
	} else {
		db = db.Where("start_time IS NULL")
	}
	return first(db)
}

func (r *canonicalRepository) FindExhibitionByDomain(ctx context.Context, key *MatchKey) (*model.CanonicalEvent, error) {
	if key.WebsiteDomain == "" || key.Title == "" {
		return nil, nil
	}
	db := r.db.WithContext(ctx).Model(&model.CanonicalEvent{}).
		Select("canonical_events.*").
		Joins("JOIN venues ON venues.id = canonical_events.venue_id").
		Where("LOWER(canonical_events.title) = ? AND canonical_events.city_id = ? AND canonical_events.event_type = ?",
			strings.ToLower(key.Title), key.CityID, model.EventTypeExhibition).
		Where("LOWER(venues.website_domain) IN ?", []string{key.WebsiteDomain, "www." + key.WebsiteDomain})
	db = whereStart(db, "canonical_events.", key)
	return first(db)
}

func (r *canonicalRepository) FindByTitle(ctx context.Context, key *MatchKey) (*model.CanonicalEvent, error) {
	if key.Title == "" {
		return nil, nil
	}
	db := r.db.WithContext(ctx).
		Where("LOWER(title) = ? AND venue_id = ? AND city_id = ?", strings.ToLower(key.Title), key.VenueID, key.CityID)
	db = whereStart(db, "", key)
	if key.StartTime != nil {
		db = db.Where("start_time = ?", *key.StartTime)
	}
	return first(db)
}

func (r *canonicalRepository) CreateEvent(ctx context.Context, ev *model.CanonicalEvent) error {
	if ev.EventUUID == "" {
		ev.EventUUID = uuid.NewString() // 生成全局唯一ID
	}
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *canonicalRepository) SaveEvent(ctx context.Context, ev *model.CanonicalEvent) error {
	return r.db.WithContext(ctx).Save(ev).Error
}

func (r *canonicalRepository) ListEvents(ctx context.Context, filter EventFilter, page, pageSize int) ([]*model.CanonicalEvent, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	db := r.db.WithContext(ctx).Model(&model.CanonicalEvent{})
	if filter.VenueID != 0 {
		db = db.Where("venue_id = ?", filter.VenueID)
	}
	if filter.CityID != 0 {
		db = db.Where("city_id = ?", filter.CityID)
	}
	if filter.EventType != "" {
		db = db.Where("event_type = ?", filter.EventType)
	}
	if filter.From != nil {
		db = db.Where("(end_date >= ? OR (end_date IS NULL AND start_date >= ?))", *filter.From, *filter.From)
	}
	if filter.To != nil {
		db = db.Where("start_date <= ?", *filter.To)
	}
	if filter.BabyFriendly != nil {
		db = db.Where("is_baby_friendly = ?", *filter.BabyFriendly)
	}
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []*model.CanonicalEvent
	if err := db.Order("start_date ASC").Order("id ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *canonicalRepository) GetEventByUUID(ctx context.Context, eventUUID string) (*model.CanonicalEvent, error) {
	var ev model.CanonicalEvent
	if err := r.db.WithContext(ctx).Where("event_uuid = ?", eventUUID).First(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *canonicalRepository) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.CanonicalEvent{}).Count(&n).Error
	return n, err
}

// whereStart 开始日期条件：常设展按窗口覆盖入库日匹配，其余按开始日期相等
func whereStart(db *gorm.DB, prefix string, key *MatchKey) *gorm.DB {
	if key.ActiveOn != nil {
		return db.Where(prefix+"start_date <= ? AND ("+prefix+"end_date IS NULL OR "+prefix+"end_date >= ?)",
			*key.ActiveOn, *key.ActiveOn)
	}
	return whereDate(db, prefix+"start_date", key.StartDate)
}

func whereDate(db *gorm.DB, column string, d *time.Time) *gorm.DB {
	if d == nil {
		return db.Where(column + " IS NULL")
	}
	return db.Where(column+" = ?", *d)
}

// first 取最早创建的一条；未命中返回 nil, nil
func first(db *gorm.DB) (*model.CanonicalEvent, error) {
	var ev model.CanonicalEvent
	err := db.First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}
