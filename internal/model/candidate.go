package model

import "time"

// RawCandidate 数据源提交的原始事件（边界结构，字段均可缺省，尽早规范化）
type RawCandidate struct {
	Title                string `json:"title"`
	Description          string `json:"description"`
	EventType            string `json:"event_type"`
	StartDate            string `json:"start_date"`
	EndDate              string `json:"end_date"`
	StartTime            string `json:"start_time"`
	EndTime              string `json:"end_time"`
	Location             string `json:"location"`
	URL                  string `json:"url"`
	ImageURL             string `json:"image_url"`
	Organizer            string `json:"organizer"`
	RegistrationRequired *bool  `json:"registration_required"`
	RegistrationURL      string `json:"registration_url"`
	RegistrationInfo     string `json:"registration_info"`
	Language             string `json:"language"`
	IsOnline             *bool  `json:"is_online"`
	IsBabyFriendly       *bool  `json:"is_baby_friendly"`
}

// EventCandidate 规范化后的候选事件（未入库）。指针字段为 nil 表示数据源未提供
type EventCandidate struct {
	Title                string
	Description          *string
	EventType            string
	StartDate            *time.Time // UTC 零点
	EndDate              *time.Time
	StartTime            *string // HH:MM
	EndTime              *string
	Location             *string
	SourceURL            *string
	ImageURL             *string
	Organizer            *string
	RegistrationRequired bool
	RegistrationURL      *string
	RegistrationInfo     *string
	Language             string
	IsOnline             bool
	IsBabyFriendly       bool
	VenueID              uint64
	CityID               uint64

	SourceURLDefaulted bool       // SourceURL 取自数据源的默认列表页，不作身份匹配键
	SynthesizedOn      *time.Time // 开始日期按入库日合成时为该日；匹配改为窗口覆盖该日
}

// ToCanonical 由候选事件构造新的规范事件（首次未命中时创建）
func (c *EventCandidate) ToCanonical() *CanonicalEvent {
	return &CanonicalEvent{
		Title:                c.Title,
		Description:          c.Description,
		EventType:            c.EventType,
		StartDate:            c.StartDate,
		EndDate:              c.EndDate,
		StartTime:            c.StartTime,
		EndTime:              c.EndTime,
		Location:             c.Location,
		SourceURL:            c.SourceURL,
		ImageURL:             c.ImageURL,
		Organizer:            c.Organizer,
		IsOnline:             c.IsOnline,
		RegistrationRequired: c.RegistrationRequired,
		RegistrationURL:      c.RegistrationURL,
		RegistrationInfo:     c.RegistrationInfo,
		Language:             c.Language,
		IsBabyFriendly:       c.IsBabyFriendly,
		VenueID:              c.VenueID,
		CityID:               c.CityID,
	}
}
