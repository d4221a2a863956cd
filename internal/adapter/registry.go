package adapter

import (
	"errors"
	"fmt"
	"sort"

	"CultureSync/internal/config"
	"CultureSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// ErrUnknownSource 数据源未配置或适配器未初始化
var ErrUnknownSource = errors.New("未知数据源")

// SourceRegistry 按配置实例化的数据源适配器
type SourceRegistry struct {
	logger   *logrus.Logger
	adapters map[string]interfaces.SourceAdapter
	configs  map[string]config.SourceConfig
}

func NewSourceRegistry(cfg *config.Config, logger *logrus.Logger) *SourceRegistry {
	r := &SourceRegistry{
		logger:   logger,
		adapters: make(map[string]interfaces.SourceAdapter),
		configs:  make(map[string]config.SourceConfig),
	}
	r.initAdaptersFromFactories(cfg.Sources)
	return r
}

// initAdaptersFromFactories 遍历配置中的数据源，匹配工厂函数创建实例
func (r *SourceRegistry) initAdaptersFromFactories(sources map[string]config.SourceConfig) {
	r.logger.WithField("factory_types", ListFactories()).Debug("已注册的适配器类型")

	for name, sourceCfg := range sources {
		sourceCfg := sourceCfg
		factory, ok := GetFactory(sourceCfg.Type)
		if !ok {
			r.logger.WithFields(logrus.Fields{
				"source": name,
				"type":   sourceCfg.Type,
			}).Error("未找到对应的工厂函数（init未注册？）")
			continue
		}
		adapterIns := factory(name, &sourceCfg, r.logger)
		if adapterIns == nil {
			r.logger.WithField("source", name).Error("工厂函数返回nil适配器实例")
			continue
		}
		r.adapters[name] = adapterIns
		r.configs[name] = sourceCfg
	}
	r.logger.WithField("sources", r.ListSources()).Info("数据源适配器初始化完成")
}

// ListSources 已初始化的数据源名称（排序后）
func (r *SourceRegistry) ListSources() []string {
	names := make([]string, 0, len(r.adapters))
	for n := range r.adapters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// GetAdapter 获取数据源适配器实例及其配置
func (r *SourceRegistry) GetAdapter(name string) (interfaces.SourceAdapter, *config.SourceConfig, error) {
	adapterIns, ok := r.adapters[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s（已初始化：%v）", ErrUnknownSource, name, r.ListSources())
	}
	cfg := r.configs[name]
	return adapterIns, &cfg, nil
}
