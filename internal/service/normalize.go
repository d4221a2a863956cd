package service

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"CultureSync/internal/model"

	"github.com/sirupsen/logrus"
)

const defaultLanguage = "English"

// 与 canonical_events 列宽一致
const (
	maxTitleLen     = 500
	maxLocationLen  = 512
	maxURLLen       = 1024
	maxOrganizerLen = 256
)

// 列表页栏目标题（"Past Exhibitions"、"Upcoming Events" 等），不是真实事件
var categoryHeadingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?:past|upcoming|current|future|recent|previous|now on view|on view|coming soon)(?:\s+(?:exhibitions?|events?|programs?|programmes?|shows?))?$`),
	regexp.MustCompile(`^(?:(?:all|our|special|featured|temporary|permanent|family|public)\s+)?(?:exhibitions?|events?|programs?|programmes?|calendar|tours?|talks?)(?:\s+(?:&|and)\s+(?:exhibitions?|events?|programs?|programmes?))?$`),
	regexp.MustCompile(`^(?:what'?s on|view all|see all|load more|show more|more events|calendar of events|events? calendar)$`),
}

var (
	headingTrailing = regexp.MustCompile(`[\s:.|»›\-–—]+$`)
	multiSpace      = regexp.MustCompile(`\s+`)
	babyKeywords    = regexp.MustCompile(`(?i)\b(?:bab(?:y|ies)|toddlers?|infants?|strollers?|prams?|buggies|little ones|story ?time|family (?:programs?|programmes?|days?)|parents? (?:and|&) (?:child|children|bab(?:y|ies)|toddlers?)|ages? 0\s*[-–]\s*[1-5])\b`)
)

var eventTypeAliases = map[string]string{
	"exhibit":     model.EventTypeExhibition,
	"exhibits":    model.EventTypeExhibition,
	"exhibitions": model.EventTypeExhibition,
	"events":      model.EventTypeDefault,
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"Monday, January 2, 2006",
	"Mon, Jan 2, 2006",
	"01/02/2006",
	"2006/01/02",
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// CandidateNormalizer 校验并规范化单条原始候选事件
type CandidateNormalizer struct {
	logger *logrus.Logger
}

func NewCandidateNormalizer(logger *logrus.Logger) *CandidateNormalizer {
	return &CandidateNormalizer{logger: logger}
}

// Normalize 原始候选 → 规范候选；不合格时返回 *ValidationError
func (n *CandidateNormalizer) Normalize(raw *model.RawCandidate) (*model.EventCandidate, error) {
	title := strings.TrimSpace(multiSpace.ReplaceAllString(raw.Title, " "))
	if title == "" {
		return nil, &ValidationError{Reason: SkipNoTitle}
	}
	if IsCategoryHeading(title) {
		return nil, &ValidationError{Reason: SkipCategoryHeading, Detail: title}
	}
	lang := strings.TrimSpace(raw.Language)
	if lang == "" {
		lang = defaultLanguage
	}
	// TODO: 非英文一律丢弃是沿用的产品规则，待产品确认是否放开多语言
	if !strings.EqualFold(lang, defaultLanguage) {
		return nil, &ValidationError{Reason: SkipNonEnglish, Detail: lang}
	}

	c := &model.EventCandidate{
		Title:            n.truncate(title, maxTitleLen, "title"),
		Description:      optional(raw.Description),
		EventType:        normalizeEventType(raw.EventType),
		StartDate:        n.parseDate(raw.StartDate, "start_date"),
		EndDate:          n.parseDate(raw.EndDate, "end_date"),
		StartTime:        n.parseClock(raw.StartTime, "start_time"),
		EndTime:          n.parseClock(raw.EndTime, "end_time"),
		Location:         n.truncatePtr(optional(raw.Location), maxLocationLen, "location"),
		SourceURL:        n.truncatePtr(optional(raw.URL), maxURLLen, "url"),
		ImageURL:         n.truncatePtr(optional(raw.ImageURL), maxURLLen, "image_url"),
		Organizer:        n.truncatePtr(optional(raw.Organizer), maxOrganizerLen, "organizer"),
		RegistrationURL:  n.truncatePtr(optional(raw.RegistrationURL), maxURLLen, "registration_url"),
		RegistrationInfo: optional(raw.RegistrationInfo),
		Language:         defaultLanguage,
	}
	if raw.RegistrationRequired != nil {
		c.RegistrationRequired = *raw.RegistrationRequired
	}
	if raw.IsOnline != nil {
		c.IsOnline = *raw.IsOnline
	}
	if raw.IsBabyFriendly != nil {
		c.IsBabyFriendly = *raw.IsBabyFriendly
	}
	if !c.IsBabyFriendly {
		c.IsBabyFriendly = IsBabyFriendly(c.Title, deref(c.Description))
	}
	return c, nil
}

// IsCategoryHeading 标题是否为列表页栏目标题
func IsCategoryHeading(title string) bool {
	s := strings.ToLower(strings.ReplaceAll(title, "’", "'"))
	s = headingTrailing.ReplaceAllString(s, "")
	s = strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
	for _, re := range categoryHeadingPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// IsBabyFriendly 标题或描述命中婴幼儿/亲子关键词
func IsBabyFriendly(title, description string) bool {
	return babyKeywords.MatchString(title) || babyKeywords.MatchString(description)
}

func normalizeEventType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return model.EventTypeDefault
	}
	if alias, ok := eventTypeAliases[t]; ok {
		return alias
	}
	return t
}

// parseDate 按常见格式解析日期，失败视为缺失（交由日期合成处理）
func (n *CandidateNormalizer) parseDate(s, fieldName string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := dateOf(t)
			return &d
		}
	}
	n.logger.Debugf("解析[%s]失败（值：%s），按缺失处理", fieldName, s)
	return nil
}

// parseClock 解析时刻为 HH:MM
func (n *CandidateNormalizer) parseClock(s, fieldName string) *string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	s = strings.NewReplacer("A.M.", "AM", "P.M.", "PM").Replace(s)
	if s == "NOON" {
		s = "12:00"
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			v := t.Format("15:04")
			return &v
		}
	}
	n.logger.Debugf("解析[%s]失败（值：%s），按缺失处理", fieldName, s)
	return nil
}

// truncate 截断超长字段（按字符），避免数据库字段超限
func (n *CandidateNormalizer) truncate(s string, maxLen int, fieldName string) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	n.logger.Warnf("字段[%s]超长（长度%d），截断为%d字符", fieldName, utf8.RuneCountInString(s), maxLen)
	return string([]rune(s)[:maxLen])
}

func (n *CandidateNormalizer) truncatePtr(s *string, maxLen int, fieldName string) *string {
	if s == nil {
		return nil
	}
	v := n.truncate(*s, maxLen, fieldName)
	return &v
}

// dateOf 取日期部分，统一为 UTC 零点
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
