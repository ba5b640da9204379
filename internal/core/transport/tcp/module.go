package tcp

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-mpcrpc/config"
	"github.com/dep2p/go-mpcrpc/internal/core/pool"
	"github.com/dep2p/go-mpcrpc/pkg/interfaces"
	"github.com/dep2p/go-mpcrpc/pkg/types"
)

// Params TCP 传输依赖参数
type Params struct {
	fx.In

	Config   *config.Config
	PartySet *types.PartySet
	Sink     interfaces.PacketSink
	Dialer   pool.Dialer `optional:"true"`
}

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	Sender   *Sender
	Listener *Listener
	Outbound interfaces.Outbound
	Inbound  interfaces.Inbound
}

// ProvideServices 提供出站与入站路径
func ProvideServices(p Params) ModuleOutput {
	s := NewSender(p.Config.Transport, p.Dialer)
	l := NewListener(p.Config.Transport, p.PartySet.Own(), p.Sink)
	return ModuleOutput{
		Sender:   s,
		Listener: l,
		Outbound: s,
		Inbound:  l,
	}
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("transport/tcp",
		fx.Provide(ProvideServices),
		fx.Invoke(registerLifecycle),
	)
}

// registerLifecycle 注册生命周期钩子
//
// 启动时先绑定监听端口；出站连接惰性建立，无需启动。
// 停止时关闭监听并等待端口释放，再关闭出站连接池。
func registerLifecycle(lc fx.Lifecycle, s *Sender, l *Listener) {
	lc.Append(fx.Hook{
		OnStart: l.Start,
		OnStop: func(ctx context.Context) error {
			return multierr.Combine(l.Stop(ctx), s.Close())
		},
	})
}
