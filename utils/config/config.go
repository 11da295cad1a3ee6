package config

import (
	"fmt"
)

// RuntimeConfig 运行时配置
// 功能：存储采样任务运行时的配置信息，包含补全默认值后的采样流列表
// 说明：将YAML配置转换为运行时可用的配置对象
type RuntimeConfig struct {
	All     Config   // 全部配置
	C       Control  // 全局控制配置
	Streams []Stream // 补全默认值后的采样流
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，进行配置验证和默认值补全
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针，校验失败时返回错误
// 算法说明：
// 1. 校验至少存在一个采样流
// 2. 补全流默认值：名字缺省为stream{下标}，次数缺省为1，负数报错
// 3. 校验输出配置：指定了URI却没有summary位置时报错
// 说明：μ不在此处校验，非法μ由采样器以NaN路径处理并由任务计数
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	rc := &RuntimeConfig{}

	rc.All = config
	rc.C = config.Control

	if len(config.Streams) == 0 {
		return nil, fmt.Errorf("config: no streams specified")
	}
	rc.Streams = make([]Stream, len(config.Streams))
	copy(rc.Streams, config.Streams)
	for i := range rc.Streams {
		s := &rc.Streams[i]
		if s.Name == "" {
			s.Name = fmt.Sprintf("stream%d", i)
		}
		if s.Count < 0 {
			return nil, fmt.Errorf("config: stream %s: negative count %d", s.Name, s.Count)
		}
		if s.Count == 0 {
			s.Count = 1
		}
	}
	if config.Output.URI != "" && config.Output.Summary == nil {
		return nil, fmt.Errorf("config: output.uri is set but output.summary is missing")
	}

	return rc, nil
}
