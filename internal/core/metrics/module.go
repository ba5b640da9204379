package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-mpcrpc/pkg/interfaces"
	"github.com/dep2p/go-mpcrpc/pkg/types"
)

// Params Metrics 依赖参数
type Params struct {
	fx.In

	PartySet   *types.PartySet
	Registerer prometheus.Registerer `optional:"true"`
}

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	Traffic  *Traffic
	Reporter Reporter
}

// ProvideServices 创建流量统计并注册指标
func ProvideServices(p Params) (ModuleOutput, error) {
	t := NewTraffic(p.PartySet.Own().ID)
	if p.Registerer != nil {
		if err := t.Register(p.Registerer); err != nil {
			return ModuleOutput{}, err
		}
	}
	return ModuleOutput{Traffic: t, Reporter: t}, nil
}

// DecorateSink 让入站数据包先经过计数
func DecorateSink(sink interfaces.PacketSink, t *Traffic) interfaces.PacketSink {
	return CountingSink(sink, t)
}

// Module 是 metrics 的 Fx 模块
//
// 入站计数需要在应用顶层使用 fx.Decorate(DecorateSink)，
// 模块内的装饰器对其他模块不可见。
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideServices),
	)
}
