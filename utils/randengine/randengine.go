// 随机数引擎，包装了golang.org/x/exp/rand，提供采样所需的均匀/正态/指数随机源
package randengine

import (
	"flag"
	"sync"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎
// 功能：提供高质量的随机数生成功能，支持派生子引擎和线程安全操作
// 说明：基于golang.org/x/exp/rand库，嵌入的Rand直接提供
// Float64/NormFloat64/ExpFloat64等基础分布
type Engine struct {
	*rand.Rand            // 底层随机数生成器
	mtx        sync.Mutex // 互斥锁，用于线程安全操作
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改代码的情况下整体平移随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// Split 派生子引擎（非线程安全）
// 功能：从本引擎抽取一个随机种子并创建独立的子引擎
// 返回：新的随机数引擎指针
// 说明：用于为多个采样流提供相互独立且可复现的随机序列；
// 子引擎不再叠加种子偏移量，偏移已经通过父引擎的序列生效
func (e *Engine) Split() *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(e.Uint64()))}
}

// Float64Safe 随机生成浮点数（线程安全）
// 功能：生成[0.0, 1.0)范围内的随机浮点数，支持多线程安全访问
// 返回：[0.0, 1.0)范围内的随机浮点数
func (e *Engine) Float64Safe() float64 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Float64()
}

// NormFloat64Safe 随机生成标准正态分布浮点数（线程安全）
// 功能：生成标准正态分布随机数，支持多线程安全访问
// 返回：标准正态分布随机数
func (e *Engine) NormFloat64Safe() float64 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.NormFloat64()
}

// ExpFloat64Safe 随机生成标准指数分布浮点数（线程安全）
// 功能：生成均值为1的指数分布随机数，支持多线程安全访问
// 返回：标准指数分布随机数
func (e *Engine) ExpFloat64Safe() float64 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.ExpFloat64()
}

// PTrue 以指定概率返回true（非线程安全）
// 功能：根据给定概率返回布尔值
// 参数：p-返回true的概率（0.0到1.0之间）
// 返回：true或false
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}
