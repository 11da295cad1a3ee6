// 采样结果输出，将每流汇总统计写入MongoDB
package output

import (
	"context"
	"time"

	"git.fiblab.net/general/common/v2/mongoutil"
	"github.com/tsinghua-fib-lab/randdist-oss/utils/config"
)

// StreamSummary 单个采样流的汇总统计
// 功能：记录一条采样流的矩估计与运行信息
// 说明：对合法μ，均值与方差都应接近μ本身
type StreamSummary struct {
	Job       string    `bson:"job"`        // 任务名
	Name      string    `bson:"name"`       // 流名
	Mu        float64   `bson:"mu"`         // 泊松均值
	Count     int       `bson:"count"`      // 抽样次数
	Invalid   int       `bson:"invalid"`    // NaN结果数（非法μ）
	Mean      float64   `bson:"mean"`       // 样本均值
	Variance  float64   `bson:"variance"`   // 样本方差（无偏）
	Min       float64   `bson:"min"`        // 最小值
	Max       float64   `bson:"max"`        // 最大值
	Elapsed   float64   `bson:"elapsed"`    // 耗时（秒）
	CreatedAt time.Time `bson:"created_at"` // 写入时间
}

// Write 写入汇总统计
// 功能：将所有采样流的汇总统计批量写入MongoDB
// 参数：uri-MongoDB连接字符串，path-输出位置，job-任务名，summaries-汇总列表
// 返回：写入失败时的错误
// 说明：每个文档补充任务名与统一的写入时间戳
func Write(uri string, path config.OutputPath, job string, summaries []StreamSummary) error {
	client := mongoutil.NewClient(uri)
	defer client.Disconnect(context.Background())
	col := client.Database(path.GetDb()).Collection(path.GetColl())

	now := time.Now()
	docs := make([]interface{}, 0, len(summaries))
	for _, s := range summaries {
		s.Job = job
		s.CreatedAt = now
		docs = append(docs, s)
	}
	_, err := col.InsertMany(context.Background(), docs)
	return err
}
