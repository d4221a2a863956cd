package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AffinityTable 专属域名 → 场馆归属表
//
//	domains:
//	  whitney.org: Whitney Museum of American Art
//	shared_sites:
//	  moma.org: [MoMA PS1]
type AffinityTable struct {
	Domains     map[string]string   `yaml:"domains"`      // 域名 → 唯一合法场馆名
	SharedSites map[string][]string `yaml:"shared_sites"` // 域名 → 允许共用该域名的其他场馆（卫星馆）
}

// LoadAffinityTable 读取场馆域名归属表；path 为空时返回空表
func LoadAffinityTable(path string) (*AffinityTable, error) {
	t := &AffinityTable{
		Domains:     map[string]string{},
		SharedSites: map[string][]string{},
	}
	if path == "" {
		return t, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取场馆域名归属表失败: %w", err)
	}
	if err := yaml.Unmarshal(b, t); err != nil {
		return nil, fmt.Errorf("解析场馆域名归属表失败: %w", err)
	}
	if t.Domains == nil {
		t.Domains = map[string]string{}
	}
	if t.SharedSites == nil {
		t.SharedSites = map[string][]string{}
	}
	return t, nil
}
