package config

// OutputPath 指定输出数据去向的配置（MongoDB）
// 功能：定义汇总结果写入位置的配置结构
// 说明：以数据库名+集合名定位，连接串在Output中统一配置
type OutputPath struct {
	DB  string `yaml:"db"`  // 数据库名
	Col string `yaml:"col"` // 集合名
}

// GetDb 获取数据库名
// 功能：返回配置的数据库名称
// 返回：数据库名称字符串
func (p OutputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
// 功能：返回配置的集合名称
// 返回：集合名称字符串
func (p OutputPath) GetColl() string {
	return p.Col
}

// Output 指定采样结果输出的配置项
// 功能：定义汇总统计的持久化配置
// 说明：URI为空时禁用数据库输出，结果只写日志
type Output struct {
	URI     string      `yaml:"uri,omitempty"`     // MongoDB连接字符串
	Summary *OutputPath `yaml:"summary,omitempty"` // 每流汇总统计
}

// Stream 单个采样流的配置项
// 功能：定义一条独立随机序列的抽样任务
// 说明：每个流拥有独立的采样器实例与随机引擎，流之间互不干扰
type Stream struct {
	Name  string  `yaml:"name,omitempty"`  // 流名，缺省为stream{下标}
	Mu    float64 `yaml:"mu"`              // 泊松均值
	Count int     `yaml:"count,omitempty"` // 抽样次数，缺省为1
	Seed  *uint64 `yaml:"seed,omitempty"`  // 随机种子，缺省由根引擎派生
}

// Control 采样任务控制配置
// 功能：定义采样系统的核心控制参数
type Control struct {
	Seed uint64 `yaml:"seed"` // 根随机种子，用于派生各流的引擎
}

// Config YAML配置文件的根结构
// 功能：定义整个采样任务的配置结构
// 说明：包含控制、采样流、输出等所有配置项
type Config struct {
	Control Control  `yaml:"control"`          // 任务控制
	Streams []Stream `yaml:"streams"`          // 采样流列表
	Output  Output   `yaml:"output,omitempty"` // 输出
}
