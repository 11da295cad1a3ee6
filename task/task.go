package task

import (
	"flag"
	"math"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/randdist-oss/distribution"
	"github.com/tsinghua-fib-lab/randdist-oss/output"
	"github.com/tsinghua-fib-lab/randdist-oss/utils/config"
	"github.com/tsinghua-fib-lab/randdist-oss/utils/randengine"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 1000000, "心跳日志间隔抽样次数")

	log = logrus.WithField("module", "task")
)

// Context 采样任务上下文
// 功能：包含一次采样任务的所有变量和状态，管理各采样流与输出
// 说明：每个流拥有独立的采样器实例与随机引擎，缓存跨同μ调用复用
type Context struct {
	// 任务名
	job string

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig
	// 根随机引擎，用于为未指定种子的流派生子引擎
	root *randengine.Engine

	// 每流汇总统计，Run结束后有效
	summaries []output.StreamSummary
}

// NewContext 创建新的采样任务上下文
// 功能：校验配置并初始化采样任务的所有组件
// 参数：job-任务名称，c-配置对象
// 返回：初始化完成的Context实例，配置非法时返回错误
func NewContext(job string, c config.Config) (*Context, error) {
	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		return nil, err
	}
	ctx := &Context{
		job:           job,
		runtimeConfig: rc,
		root:          randengine.New(rc.C.Seed),
	}
	return ctx, nil
}

// RuntimeConfig 获取运行时配置
func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

// Summaries 获取每流汇总统计
// 说明：仅在Run返回后有效
func (ctx *Context) Summaries() []output.StreamSummary {
	return ctx.summaries
}

// Run 执行采样任务
// 功能：并发运行所有采样流，汇总统计并输出
// 返回：输出失败时的错误
// 算法说明：
// 1. 为每个流准备引擎：指定种子的直接创建，否则由根引擎按流顺序派生
//    （派生在启动协程之前串行完成，保证同一配置下结果可复现）
// 2. 每个流一个协程：独立的采样器实例逐次抽样，按心跳间隔输出进度日志
// 3. 等待全部完成后逐流输出汇总日志
// 4. 配置了输出URI时将汇总写入MongoDB
func (ctx *Context) Run() error {
	streams := ctx.runtimeConfig.Streams
	engines := make([]*randengine.Engine, len(streams))
	for i, s := range streams {
		if s.Seed != nil {
			engines[i] = randengine.New(*s.Seed)
		} else {
			engines[i] = ctx.root.Split()
		}
	}

	ctx.summaries = make([]output.StreamSummary, len(streams))
	var wg sync.WaitGroup
	for i := range streams {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx.summaries[i] = runStream(streams[i], engines[i])
		}(i)
	}
	wg.Wait()

	for _, s := range ctx.summaries {
		log.Infof(
			"stream %s: mu=%v count=%d invalid=%d mean=%.4f variance=%.4f min=%v max=%v elapsed=%.3fs",
			s.Name, s.Mu, s.Count, s.Invalid, s.Mean, s.Variance, s.Min, s.Max, s.Elapsed,
		)
	}

	if out := ctx.runtimeConfig.All.Output; out.URI != "" {
		if err := output.Write(out.URI, *out.Summary, ctx.job, ctx.summaries); err != nil {
			return err
		}
		log.Infof("summaries written to %s.%s", out.Summary.GetDb(), out.Summary.GetColl())
	}
	return nil
}

// runStream 运行单个采样流
// 功能：对一个流完成全部抽样并计算汇总统计
// 参数：s-流配置，engine-该流独占的随机引擎
// 返回：该流的汇总统计
func runStream(s config.Stream, engine *randengine.Engine) output.StreamSummary {
	start := time.Now()
	sampler := &distribution.Poisson{}
	draws := make([]float64, 0, s.Count)
	for done := 0; done < s.Count; done++ {
		draws = append(draws, sampler.Sample(engine, s.Mu))
		if (done+1)%*heartBeatInterval == 0 {
			log.Infof("stream %s: %d/%d", s.Name, done+1, s.Count)
		}
	}
	return summarize(s, draws, time.Since(start))
}

// summarize 计算单个采样流的汇总统计
// 功能：对抽样结果计算样本矩并打包为汇总文档
// 参数：s-流配置，draws-抽样结果，elapsed-耗时
// 返回：汇总统计
// 说明：NaN结果（非法μ）计入Invalid并从矩估计中剔除；方差为无偏估计
func summarize(s config.Stream, draws []float64, elapsed time.Duration) output.StreamSummary {
	valid := lo.Filter(draws, func(v float64, _ int) bool { return !math.IsNaN(v) })
	res := output.StreamSummary{
		Name:    s.Name,
		Mu:      s.Mu,
		Count:   len(draws),
		Invalid: len(draws) - len(valid),
		Elapsed: elapsed.Seconds(),
	}
	if len(valid) == 0 {
		return res
	}
	res.Mean = lo.Sum(valid) / float64(len(valid))
	res.Min = lo.Min(valid)
	res.Max = lo.Max(valid)
	if len(valid) > 1 {
		sq := .0
		for _, v := range valid {
			d := v - res.Mean
			sq += d * d
		}
		res.Variance = sq / float64(len(valid)-1)
	}
	return res
}
