package model

import (
	"time"
)

// 事件类型
const (
	EventTypeDefault    = "event"
	EventTypeExhibition = "exhibition"
)

// CanonicalEvent 去重后的规范事件主表（同一真实事件多次抓取后只保留一条）
// 每次命中都原地更新，从不整体替换；删除/过期不归入库流程负责
type CanonicalEvent struct {
	ID                   uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	EventUUID            string     `gorm:"column:event_uuid;type:varchar(64);uniqueIndex;not null"`
	Title                string     `gorm:"column:title;type:varchar(500);not null"`
	Description          *string    `gorm:"column:description;type:text"`
	EventType            string     `gorm:"column:event_type;type:varchar(32);not null;default:event"`
	StartDate            *time.Time `gorm:"column:start_date;type:date;index:idx_canonical_venue_start,priority:2"`
	EndDate              *time.Time `gorm:"column:end_date;type:date"`
	StartTime            *string    `gorm:"column:start_time;type:varchar(5)"` // HH:MM
	EndTime              *string    `gorm:"column:end_time;type:varchar(5)"`
	Location             *string    `gorm:"column:location;type:varchar(512)"` // 地点/集合点
	SourceURL            *string    `gorm:"column:source_url;type:varchar(1024)"`
	SourceURLKey         *string    `gorm:"column:source_url_key;type:varchar(1024);index"` // 规范化链接，第一层匹配用
	ImageURL             *string    `gorm:"column:image_url;type:varchar(1024)"`
	Organizer            *string    `gorm:"column:organizer;type:varchar(256)"`
	IsOnline             bool       `gorm:"column:is_online"`
	RegistrationRequired bool       `gorm:"column:registration_required"`
	RegistrationURL      *string    `gorm:"column:registration_url;type:varchar(1024)"`
	RegistrationInfo     *string    `gorm:"column:registration_info;type:text"`
	Language             string     `gorm:"column:language;type:varchar(32);not null"`
	IsBabyFriendly       bool       `gorm:"column:is_baby_friendly;index"`
	VenueID              uint64     `gorm:"column:venue_id;type:bigint;not null;index:idx_canonical_venue_start,priority:1"`
	CityID               uint64     `gorm:"column:city_id;type:bigint;not null;index"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (CanonicalEvent) TableName() string { return "canonical_events" }
