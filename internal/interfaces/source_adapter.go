package interfaces

import (
	"context"

	"CultureSync/internal/config"
	"CultureSync/internal/model"

	"github.com/sirupsen/logrus"
)

// SourceAdapter 所有数据源必须实现的核心接口
type SourceAdapter interface {
	GetName() string                                                    // 数据源名称（config.sources 的键）
	GetType() string                                                    // 适配器类型
	FetchCandidates(ctx context.Context) ([]*model.RawCandidate, error) // 抓取原始候选事件
}

// CandidateEnricher 可选接口：规范化之后、入库之前补充数据源专属字段
type CandidateEnricher interface {
	Enrich(c *model.EventCandidate)
}

// Factory 数据源适配器工厂函数签名
type Factory func(name string, cfg *config.SourceConfig, logger *logrus.Logger) SourceAdapter
