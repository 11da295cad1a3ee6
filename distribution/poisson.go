// 泊松分布随机数生成，实现Ahrens-Dieter(1982)算法
//
// 参考文献：Ahrens, J.H. and Dieter, U. (1982).
// Computer generation of Poisson deviates from modified normal distributions.
// ACM Transactions on Mathematical Software 8, 163-179.
package distribution

import (
	"math"
)

// Source 随机源能力接口
// 功能：定义泊松采样器所需的三种基础随机数来源
// 说明：由调用方提供（如randengine.Engine或golang.org/x/exp/rand.Rand），
// 采样器本身不实现任何随机位生成
type Source interface {
	Float64() float64     // 均匀分布[0,1)
	NormFloat64() float64 // 标准正态分布
	ExpFloat64() float64  // 标准指数分布
}

// Ahrens-Dieter算法的精确常数，不可化简
// 说明：a0..a7为log(1+v)近似多项式系数，one7/one12/one24为分数常数，
// m1Sqrt2Pi为1/sqrt(2*pi)，精度决定了Hermite/Laplace近似的误差保证
const (
	a0 = -0.5
	a1 = 0.3333333
	a2 = -0.2500068
	a3 = 0.2000118
	a4 = -0.1661269
	a5 = 0.1421878
	a6 = -0.1384794
	a7 = 0.1250060

	one7  = 0.1428571428571428571
	one12 = 0.0833333333333333333
	one24 = 0.0416666666666666667

	m1Sqrt2Pi = 0.398942280401432677939946059934 // 1/sqrt(2*pi)
)

// fact 0!..9!的阶乘表，用于大μ分支中pois<10时的精确概率
var fact = [10]float64{1, 1, 2, 6, 24, 120, 720, 5040, 40320, 362880}

// Poisson 泊松分布采样器
// 功能：按均值μ生成单个泊松随机数，并跨调用缓存由μ导出的常数
// 说明：μ<10时采用累积概率表反演，μ≥10时采用正态近似加接受-拒绝；
// 缓存由采样器实例独占，零值即可使用，首次调用或μ变化时惰性重建；
// 多协程共用同一实例时需要调用方自行加锁（或每协程一个实例）
type Poisson struct {
	// 小μ反演表状态，muPrev与当前μ一致时有效
	muPrev float64     // 上次小μ调用的μ
	m      int         // max(1, trunc(μ))，表扫描的候选起点
	l      int         // 表已填充的最高下标，0..35
	p0     float64     // P(X=0) = e^-μ
	p      float64     // 最近一次填表时的P(X=k)
	q      float64     // 最近一次填表时的累积概率
	pp     [36]float64 // 累积概率表，pp[k] = P(X<=k)

	// 大μ Step N/S常数，bigMuPrev与当前μ一致时有效
	bigMuPrev float64 // 上次大μ调用的μ
	s         float64 // sqrt(μ)
	d         float64 // 6μ²，squeeze测试的缩放
	bigL      float64 // floor(μ-1.1484)，正态尾部快速接受阈值

	// 大μ Step P Hermite常数，muPrev2与当前μ一致时有效
	// 说明：muPrev2与bigMuPrev独立跟踪，因为Step I/S命中时
	// 调用可以在不刷新本组常数的情况下直接返回
	muPrev2 float64
	omega   float64 // (1/sqrt(2π))/s
	b1      float64 // 1/(24μ)
	b2      float64 // 0.3·b1²
	c0      float64 // Hermite三次多项式系数
	c1      float64
	c2      float64
	c3      float64
	c       float64 // 0.1069/μ，hat路径接受测试的缩放
}

// Sample 生成一个泊松随机数
// 功能：校验μ、选择分支并返回单个泊松分布随机数
// 参数：rng-随机源，mu-泊松均值
// 返回：非负整数值的浮点数；μ非法（非有限或为负）时返回NaN
// 算法说明：
// 1. μ非有限或μ<0：输出警告日志并返回NaN
// 2. μ=0：退化分布，不消耗随机源，直接返回0
// 3. 0<μ<10：查表反演（sampleSmall）
// 4. μ≥10：正态近似加接受-拒绝（sampleBig），阈值10为闭区间下界
func (ps *Poisson) Sample(rng Source, mu float64) float64 {
	if math.IsNaN(mu) || math.IsInf(mu, 0) || mu < 0 {
		log.Warnf("Sample: invalid mean %v, return NaN", mu)
		return math.NaN()
	}
	if mu == 0 {
		return 0
	}
	if mu < 10 {
		return ps.sampleSmall(rng, mu)
	}
	return ps.sampleBig(rng, mu)
}

// SampleN 生成n个泊松随机数
// 功能：复用同一采样器实例连续抽样n次
// 参数：rng-随机源，n-抽样次数，mu-泊松均值
// 返回：长度为n的随机数切片
// 说明：同一μ下缓存跨调用复用，均摊每次抽样为O(1)
func (ps *Poisson) SampleN(rng Source, n int, mu float64) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = ps.Sample(rng, mu)
	}
	return res
}

// sampleSmall 小μ分支（0<μ<10）
// 功能：基于记忆化累积概率表的无拒绝反演抽样
// 算法说明：
// 1. μ变化时重建表状态：l=0，m=max(1,trunc(μ))，p=q=p0=e^-μ
// 2. 抽u；u≤p0直接返回0
// 3. 表已有内容时从k=(u≤0.458?1:min(l,m))扫描到l，命中pp[k]≥u则返回k；
//    l=35且未命中时换新u重试
// 4. 否则从l+1起扩展表到35：p←p·μ/k，q←q+p，pp[k]=q，u≤q则置l=k并返回k；
//    扩展穷尽仍未命中则置l=35并换新u重试
// 说明：pp[1..l]单调不减且包含P(X=0)项，后续同μ调用直接复用
func (ps *Poisson) sampleSmall(rng Source, mu float64) float64 {
	if mu != ps.muPrev {
		ps.muPrev = mu
		ps.m = max(1, int(mu))
		ps.l = 0
		ps.p0 = math.Exp(-mu)
		ps.p = ps.p0
		ps.q = ps.p0
	}
	for {
		u := rng.Float64()
		if u <= ps.p0 {
			return 0
		}
		if ps.l > 0 {
			k := 1
			if u > 0.458 {
				k = min(ps.l, ps.m)
			}
			for ; k <= ps.l; k++ {
				if u <= ps.pp[k] {
					return float64(k)
				}
			}
			if ps.l == 35 {
				continue
			}
		}
		for k := ps.l + 1; k <= 35; k++ {
			ps.p *= mu / float64(k)
			ps.q += ps.p
			ps.pp[k] = ps.q
			if u <= ps.q {
				ps.l = k
				return float64(k)
			}
		}
		ps.l = 35
	}
}

// sampleBig 大μ分支（μ≥10）
// 功能：正态近似抽样加squeeze/接受-拒绝修正
// 算法说明：
// 1. Step N：g = μ + s·Z，Z为标准正态
// 2. Step I：g≥0时pois=floor(g)，pois≥bigL直接接受（正态尾部无需修正）
// 3. Step S：squeeze测试，抽u，d·u≥difmuk³则接受
// 4. Step P：μ变化或刚进入大μ分支时刷新Hermite常数组
// 5. Step F：squeeze失败时以kflag=0复用已有(pois,fk,difmuk,u)做商式接受测试
// 6. Step E：Laplace hat循环，E为标准指数、u∈(-1,1)定号，t=1.8±E；
//    t≤-0.6744的新抽样直接丢弃，否则pois=floor(μ+s·t)以kflag=1做hat接受测试
// 说明：接受概率对一切μ≥10有下界，循环几乎必然终止，期望迭代次数O(1)；
// 按参考算法不设迭代上限
func (ps *Poisson) sampleBig(rng Source, mu float64) float64 {
	newBigMu := false
	if mu != ps.bigMuPrev {
		newBigMu = true
		ps.bigMuPrev = mu
		ps.s = math.Sqrt(mu)
		ps.d = 6 * mu * mu
		ps.bigL = math.Floor(mu - 1.1484)
	}

	// Step N
	g := mu + ps.s*rng.NormFloat64()

	var pois, fk, difmuk, u float64
	squeezeFailed := false
	if g >= 0 {
		pois = math.Floor(g)
		// Step I
		if pois >= ps.bigL {
			return pois
		}
		// Step S
		fk = pois
		difmuk = mu - fk
		u = rng.Float64()
		if ps.d*u >= difmuk*difmuk*difmuk {
			return pois
		}
		squeezeFailed = true
	}

	// Step P
	if newBigMu || mu != ps.muPrev2 {
		ps.muPrev2 = mu
		ps.omega = m1Sqrt2Pi / ps.s
		ps.b1 = one24 / mu
		ps.b2 = 0.3 * ps.b1 * ps.b1
		ps.c3 = one7 * ps.b1 * ps.b2
		ps.c2 = ps.b2 - 15*ps.c3
		ps.c1 = ps.b1 - 6*ps.b2 + 45*ps.c3
		ps.c0 = 1 - ps.b1 + 3*ps.b2 - 15*ps.c3
		ps.c = 0.1069 / mu
	}

	// Step F：squeeze失败后首次进入，复用Step S的状态，不抽新指数
	if squeezeFailed && ps.accept(mu, pois, fk, difmuk, u, 0, 0) {
		return pois
	}

	// Step E
	for {
		e := rng.ExpFloat64()
		u = 2*rng.Float64() - 1
		t := 1.8 + math.Copysign(e, u)
		if t <= -0.6744 {
			continue
		}
		pois = math.Floor(mu + ps.s*t)
		fk = pois
		difmuk = mu - fk
		if ps.accept(mu, pois, fk, difmuk, u, e, 1) {
			return pois
		}
	}
}

// accept 共享接受测试子程序（Step F）
// 功能：对候选pois计算真实密度与hat密度的近似并判定是否接受
// 参数：mu-泊松均值，pois/fk-候选值及其浮点形式，difmuk-μ-fk，
// u-定号均匀量（kflag=0时为squeeze的u，kflag=1时为2U-1），
// e-标准指数量（仅kflag=1使用），kflag-入口判别（0=squeeze失败的商式路径，1=hat路径）
// 返回：true表示接受候选
// 算法说明：
// 1. pois<10：px=-μ，py=μ^pois/pois!（精确阶乘表）
// 2. 否则：del=(1/12)/fk·(1-4.8·((1/12)/fk)²)为Stirling余项修正，v=difmuk/fk；
//    |v|≤0.25时用a0..a7多项式近似fk·v²·P(v)-del，否则px=fk·log(1+v)-difmuk-del；
//    py=(1/sqrt(2π))/sqrt(fk)
// 3. x=((0.5-difmuk)/s)²，fx=-x/2，fy=omega·(Hermite三次式 in x)
// 4. kflag=1：接受当且仅当c·|u| ≤ py·e^(px+e) - fy·e^(fx+e)
//    kflag=0：接受当且仅当fy-u·fy ≤ py·e^(px-fx)
// 说明：两条控制路径共用同一密度/指数计算，仅以kflag区分最终比较式
func (ps *Poisson) accept(mu, pois, fk, difmuk, u, e float64, kflag int) bool {
	var px, py float64
	if pois < 10 {
		px = -mu
		py = math.Pow(mu, pois) / fact[int(pois)]
	} else {
		del := one12 / fk
		del *= 1 - 4.8*del*del
		v := difmuk / fk
		if math.Abs(v) <= 0.25 {
			px = fk*v*v*(((((((a7*v+a6)*v+a5)*v+a4)*v+a3)*v+a2)*v+a1)*v+a0) - del
		} else {
			px = fk*math.Log(1+v) - difmuk - del
		}
		py = m1Sqrt2Pi / math.Sqrt(fk)
	}
	x := (0.5 - difmuk) / ps.s
	x *= x
	fx := -0.5 * x
	fy := ps.omega * (((ps.c3*x+ps.c2)*x+ps.c1)*x + ps.c0)
	if kflag > 0 {
		return ps.c*math.Abs(u) <= py*math.Exp(px+e)-fy*math.Exp(fx+e)
	}
	return fy-u*fy <= py*math.Exp(px-fx)
}
