package adapter

import (
	"fmt"
	"sort"

	"CultureSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// 全局工厂函数注册表：适配器类型 → 工厂
var factoryRegistry = make(map[string]interfaces.Factory)

// Register 供适配器 init 函数调用
func Register(sourceType string, factory interfaces.Factory) {
	if factory == nil {
		panic(fmt.Sprintf("适配器类型%s的工厂函数不能为nil", sourceType))
	}
	if _, exists := factoryRegistry[sourceType]; exists {
		logrus.Warnf("适配器类型%s已注册，将覆盖原有实现", sourceType)
	}
	factoryRegistry[sourceType] = factory
}

// GetFactory 获取指定类型的工厂函数
func GetFactory(sourceType string) (interfaces.Factory, bool) {
	factory, ok := factoryRegistry[sourceType]
	return factory, ok
}

// ListFactories 列出所有已注册的适配器类型（排序后）
func ListFactories() []string {
	types := make([]string, 0, len(factoryRegistry))
	for t := range factoryRegistry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
