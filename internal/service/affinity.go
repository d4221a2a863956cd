package service

import (
	"sort"
	"strings"

	"CultureSync/internal/config"
	"CultureSync/internal/model"
)

// 内置专属域名表：这些官网只属于一个实体场馆
var defaultSpecializedDomains = map[string]string{
	"whitney.org":         "Whitney Museum of American Art",
	"guggenheim.org":      "Solomon R. Guggenheim Museum",
	"newmuseum.org":       "New Museum",
	"frick.org":           "The Frick Collection",
	"metmuseum.org":       "The Metropolitan Museum of Art",
	"moma.org":            "The Museum of Modern Art",
	"brooklynmuseum.org":  "Brooklyn Museum",
	"thejewishmuseum.org": "The Jewish Museum",
	"noguchi.org":         "The Noguchi Museum",
	"themorgan.org":       "The Morgan Library & Museum",
	"cooperhewitt.org":    "Cooper Hewitt, Smithsonian Design Museum",
	"neuegalerie.org":     "Neue Galerie New York",
	"studiomuseum.org":    "The Studio Museum in Harlem",
	"elmuseo.org":         "El Museo del Barrio",
	"museumofthecity.org": "Museum of the City of New York",
	"diaart.org":          "Dia Beacon",
	"nyhistory.org":       "New-York Historical Society",
	"rubinmuseum.org":     "The Rubin Museum of Art",
	"momaps1.org":         "MoMA PS1",
}

// 共用父站的卫星场馆：事件挂在父馆域名下，属合法例外
var defaultSharedSites = map[string][]string{
	"metmuseum.org": {"The Met Cloisters", "The Met Breuer"},
	"moma.org":      {"MoMA PS1"},
	"frick.org":     {"Frick Madison"},
	"diaart.org":    {"Dia Chelsea", "Dia Bridgehampton"},
}

// AffinityValidator 校验候选事件的来源域名与当前入库场馆一致，防止共用日历页把兄弟场馆事件挂错地点
type AffinityValidator struct {
	domains     map[string]string              // 域名 → 规范化场馆名
	ownerNames  map[string]string              // 域名 → 原始场馆名（报错用）
	sharedSites map[string]map[string]struct{} // 域名 → 允许的规范化场馆名
}

// NewAffinityValidator 以内置表为底，table 中的同名域名覆盖内置值
func NewAffinityValidator(table *config.AffinityTable) *AffinityValidator {
	v := &AffinityValidator{
		domains:     make(map[string]string),
		ownerNames:  make(map[string]string),
		sharedSites: make(map[string]map[string]struct{}),
	}
	for d, name := range defaultSpecializedDomains {
		v.addDomain(d, name)
	}
	for d, names := range defaultSharedSites {
		v.addShared(d, names)
	}
	if table != nil {
		for d, name := range table.Domains {
			v.addDomain(d, name)
		}
		for d, names := range table.SharedSites {
			v.addShared(d, names)
		}
	}
	return v
}

func (v *AffinityValidator) addDomain(domain, venueName string) {
	d := NormalizeDomain(domain)
	v.domains[d] = normalizeVenueName(venueName)
	v.ownerNames[d] = venueName
}

func (v *AffinityValidator) addShared(domain string, venueNames []string) {
	d := NormalizeDomain(domain)
	set, ok := v.sharedSites[d]
	if !ok {
		set = make(map[string]struct{})
		v.sharedSites[d] = set
	}
	for _, n := range venueNames {
		set[normalizeVenueName(n)] = struct{}{}
	}
}

// Check 来源域名属于其他专属场馆且当前场馆不是该域名的共用例外时返回 *AffinityMismatchError
func (v *AffinityValidator) Check(c *model.EventCandidate, venueName string) error {
	if c.SourceURL == nil {
		return nil
	}
	domain, owner, ok := v.lookup(HostOf(*c.SourceURL))
	if !ok {
		return nil
	}
	current := normalizeVenueName(venueName)
	if owner == current {
		return nil
	}
	if _, shared := v.sharedSites[domain][current]; shared {
		return nil
	}
	return &AffinityMismatchError{Domain: domain, OwnerVenue: v.ownerNames[domain], CurrentVenue: venueName}
}

// Domains 已知专属域名（排序后）
func (v *AffinityValidator) Domains() []string {
	out := make([]string, 0, len(v.domains))
	for d := range v.domains {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// lookup 精确匹配或按子域名逐级向上匹配
func (v *AffinityValidator) lookup(host string) (domain, owner string, ok bool) {
	for host != "" {
		if owner, ok := v.domains[host]; ok {
			return host, owner, true
		}
		i := strings.IndexByte(host, '.')
		if i < 0 {
			break
		}
		host = host[i+1:]
	}
	return "", "", false
}

func normalizeVenueName(name string) string {
	return strings.ToLower(strings.TrimSpace(multiSpace.ReplaceAllString(name, " ")))
}
