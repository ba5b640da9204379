package memory

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-mpcrpc/config"
	"github.com/dep2p/go-mpcrpc/pkg/interfaces"
	"github.com/dep2p/go-mpcrpc/pkg/types"
)

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	Listener *Listener
	Outbound interfaces.Outbound
	Inbound  interfaces.Inbound
}

// ProvideServices 提供进程内出站与入站路径
func ProvideServices(cfg *config.Config, hub *Hub, set *types.PartySet, sink interfaces.PacketSink) ModuleOutput {
	l := NewListener(hub, set.Own(), sink)
	return ModuleOutput{
		Listener: l,
		Outbound: NewSender(hub, cfg.Transport.DialTimeout.Duration()),
		Inbound:  l,
	}
}

// Module 返回 fx 模块配置，hub 由同一进程内的全部参与方共享
func Module(hub *Hub) fx.Option {
	return fx.Module("transport/memory",
		fx.Supply(hub),
		fx.Provide(ProvideServices),
		fx.Invoke(func(lc fx.Lifecycle, l *Listener) {
			lc.Append(fx.Hook{OnStart: l.Start, OnStop: l.Stop})
		}),
	)
}
