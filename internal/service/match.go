package service

import (
	"context"

	"CultureSync/internal/model"
	"CultureSync/internal/repository"
)

// 匹配层级名称（日志与指标使用）
const (
	MatchTierSourceURL        = "source_url"
	MatchTierExhibitionDomain = "exhibition_domain"
	MatchTierTitle            = "title"
)

// matchStrategy 单个匹配层级：applies 判断是否适用，lookup 在事务内查找
type matchStrategy struct {
	name    string
	applies func(c *model.EventCandidate, key *repository.MatchKey) bool
	lookup  func(ctx context.Context, repo repository.CanonicalRepository, key *repository.MatchKey) (*model.CanonicalEvent, error)
}

// MatchResolver 按顺序尝试各层匹配，第一个命中即返回
type MatchResolver struct {
	strategies []matchStrategy
}

func NewMatchResolver() *MatchResolver {
	return &MatchResolver{strategies: []matchStrategy{
		{
			// 同一链接的循环活动靠开始时间区分，不会互相覆盖
			name: MatchTierSourceURL,
			applies: func(_ *model.EventCandidate, key *repository.MatchKey) bool {
				return key.SourceURLKey != ""
			},
			lookup: func(ctx context.Context, repo repository.CanonicalRepository, key *repository.MatchKey) (*model.CanonicalEvent, error) {
				return repo.FindBySourceURL(ctx, key)
			},
		},
		{
			// 同一官网下挂在不同场馆行的同一展览合并为一条
			name: MatchTierExhibitionDomain,
			applies: func(c *model.EventCandidate, key *repository.MatchKey) bool {
				return c.EventType == model.EventTypeExhibition && key.WebsiteDomain != ""
			},
			lookup: func(ctx context.Context, repo repository.CanonicalRepository, key *repository.MatchKey) (*model.CanonicalEvent, error) {
				return repo.FindExhibitionByDomain(ctx, key)
			},
		},
		{
			name: MatchTierTitle,
			applies: func(_ *model.EventCandidate, _ *repository.MatchKey) bool {
				return true
			},
			lookup: func(ctx context.Context, repo repository.CanonicalRepository, key *repository.MatchKey) (*model.CanonicalEvent, error) {
				return repo.FindByTitle(ctx, key)
			},
		},
	}}
}

// BuildMatchKey 由规范候选与当前场馆构造匹配键
func BuildMatchKey(c *model.EventCandidate, venue *model.Venue) *repository.MatchKey {
	key := &repository.MatchKey{
		Title:     c.Title,
		StartDate: c.StartDate,
		StartTime: c.StartTime,
		VenueID:   c.VenueID,
		CityID:    c.CityID,
		ActiveOn:  c.SynthesizedOn,
	}
	// 默认列表页被多个活动共用，不能区分身份
	if c.SourceURL != nil && !c.SourceURLDefaulted {
		key.SourceURLKey = NormalizeSourceURL(*c.SourceURL)
	}
	if venue != nil {
		key.WebsiteDomain = HostOf(venue.WebsiteDomain)
	}
	return key
}

// Resolve 返回命中的规范事件与命中层级；全部未命中返回 nil, "", nil
func (m *MatchResolver) Resolve(ctx context.Context, repo repository.CanonicalRepository, c *model.EventCandidate, venue *model.Venue) (*model.CanonicalEvent, string, error) {
	key := BuildMatchKey(c, venue)
	for _, s := range m.strategies {
		if !s.applies(c, key) {
			continue
		}
		ev, err := s.lookup(ctx, repo, key)
		if err != nil {
			return nil, s.name, &PersistenceError{Op: "匹配(" + s.name + ")", Err: err}
		}
		if ev != nil {
			return ev, s.name, nil
		}
	}
	return nil, "", nil
}
