package service

import (
	"regexp"
	"time"

	"CultureSync/internal/model"
)

const (
	defaultOngoingWindowDays = 730
	defaultPlaceholderYears  = 10
)

var ongoingSignal = regexp.MustCompile(`(?i)\b(?:ongoing|permanent|permanently|indefinitely)\b|\balways on (?:view|display)\b`)

// DateSynthesizer 为常设展/无结束日期的展览合成日期窗口。
// 合成窗口固定为入库日起 730 天，过期后记录自然失效，下次抓取再重新确认
type DateSynthesizer struct {
	windowDays   int
	horizonYears int
}

func NewDateSynthesizer(windowDays, horizonYears int) *DateSynthesizer {
	if windowDays <= 0 {
		windowDays = defaultOngoingWindowDays
	}
	if horizonYears <= 0 {
		horizonYears = defaultPlaceholderYears
	}
	return &DateSynthesizer{windowDays: windowDays, horizonYears: horizonYears}
}

// Apply 按入库日 now 补全或修正日期；无法确定开始日期时返回 *ValidationError。
// 开始日期取入库日时记录 SynthesizedOn，重复抓取据此命中仍在窗口内的已有记录
func (s *DateSynthesizer) Apply(c *model.EventCandidate, now time.Time) error {
	today := dateOf(now)
	horizon := today.AddDate(s.horizonYears, 0, 0)
	windowEnd := today.AddDate(0, 0, s.windowDays)

	switch {
	case c.EndDate != nil && c.EndDate.After(horizon):
		// 结束日期远超合理范围，是上游抽取的占位值
		start := today
		if c.StartDate != nil && c.StartDate.Before(today) {
			start = *c.StartDate
		} else {
			c.SynthesizedOn = &today
		}
		c.StartDate = &start
		c.EndDate = &windowEnd
	case c.StartDate != nil:
		// 正常的短期/中期展览保持原样
	case isOngoing(c):
		start := today
		c.StartDate = &start
		c.EndDate = &windowEnd
		c.SynthesizedOn = &today
	default:
		return &ValidationError{Reason: SkipNoStartDate}
	}

	if c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		c.EndDate = nil
	}
	return nil
}

// isOngoing 标题/描述含常设信号，或是完全没有日期的展览
func isOngoing(c *model.EventCandidate) bool {
	if ongoingSignal.MatchString(c.Title) || ongoingSignal.MatchString(deref(c.Description)) {
		return true
	}
	return c.EventType == model.EventTypeExhibition && c.StartDate == nil && c.EndDate == nil
}
