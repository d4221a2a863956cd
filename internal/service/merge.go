package service

import (
	"unicode/utf8"

	"CultureSync/internal/model"
)

// MergeEvent 按"只改进、不退化"把候选事件合并进已有规范事件，返回是否有字段变化。
// 无变化时调用方不得写库
func MergeEvent(ev *model.CanonicalEvent, c *model.EventCandidate, venueID uint64) bool {
	changed := false

	// 场馆以当前入库场馆为准（自愈）
	if venueID != 0 && ev.VenueID != venueID {
		ev.VenueID = venueID
		changed = true
	}

	// 描述只在更长时替换
	if c.Description != nil && utf8.RuneCountInString(*c.Description) > utf8.RuneCountInString(deref(ev.Description)) {
		ev.Description = c.Description
		changed = true
	}

	// 类型只从默认值升级为具体类型，不反向
	if ev.EventType == model.EventTypeDefault && c.EventType != "" && c.EventType != model.EventTypeDefault {
		ev.EventType = c.EventType
		changed = true
	}

	// 链接以最近一次抓取为准；默认列表页只补空，不覆盖具体链接
	if c.SourceURLDefaulted {
		changed = fillString(&ev.SourceURL, c.SourceURL) || changed
	} else if c.SourceURL != nil && *c.SourceURL != deref(ev.SourceURL) {
		ev.SourceURL = c.SourceURL
		key := NormalizeSourceURL(*c.SourceURL)
		ev.SourceURLKey = &key
		changed = true
	}
	if c.ImageURL != nil && *c.ImageURL != deref(ev.ImageURL) {
		ev.ImageURL = c.ImageURL
		changed = true
	}

	// 布尔标记只在新值为 true 时覆盖
	changed = raiseFlag(&ev.IsOnline, c.IsOnline) || changed
	changed = raiseFlag(&ev.RegistrationRequired, c.RegistrationRequired) || changed
	changed = raiseFlag(&ev.IsBabyFriendly, c.IsBabyFriendly) || changed

	// 其余字段只补空
	changed = fillString(&ev.StartTime, c.StartTime) || changed
	changed = fillString(&ev.EndTime, c.EndTime) || changed
	changed = fillString(&ev.Location, c.Location) || changed
	changed = fillString(&ev.Organizer, c.Organizer) || changed
	changed = fillString(&ev.RegistrationURL, c.RegistrationURL) || changed
	changed = fillString(&ev.RegistrationInfo, c.RegistrationInfo) || changed
	if ev.EndDate == nil && c.EndDate != nil && (ev.StartDate == nil || !c.EndDate.Before(*ev.StartDate)) {
		d := *c.EndDate
		ev.EndDate = &d
		changed = true
	}

	return changed
}

func raiseFlag(dst *bool, v bool) bool {
	if v && !*dst {
		*dst = true
		return true
	}
	return false
}

func fillString(dst **string, v *string) bool {
	if *dst == nil && v != nil {
		s := *v
		*dst = &s
		return true
	}
	return false
}
