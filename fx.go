package mpcrpc

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-mpcrpc/config"
	"github.com/dep2p/go-mpcrpc/internal/core/buffer"
	"github.com/dep2p/go-mpcrpc/internal/core/lifecycle"
	"github.com/dep2p/go-mpcrpc/internal/core/metrics"
	"github.com/dep2p/go-mpcrpc/internal/core/pool"
	"github.com/dep2p/go-mpcrpc/internal/core/transport"
	"github.com/dep2p/go-mpcrpc/pkg/interfaces"
	"github.com/dep2p/go-mpcrpc/pkg/types"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置与参与方集合
//  2. 生命周期协调器、缓冲区、流量统计
//  3. 传输层（TCP 或进程内）
//  4. 用户扩展
//  5. 门面组件注入
func buildFxApp(cfg *config.Config, set *types.PartySet, o *options, r *Rpc) (*fx.App, error) {
	modules := []fx.Option{
		// 配置注入
		fx.Supply(cfg, set),
		fx.Provide(func() prometheus.Registerer { return r.registerer }),

		lifecycle.Module(),
		buffer.Module(),
		metrics.Module(),
		transport.Module(o.hub),

		// 入站数据包先计数再进入缓冲区
		fx.Decorate(metrics.DecorateSink),
	}

	if o.dialer != nil {
		dial := o.dialer
		modules = append(modules, fx.Provide(func() pool.Dialer { return dial }))
	}

	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
	}

	modules = append(modules,
		fx.Invoke(injectRpcComponents(r)),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: fxZapLogger(cfg.Log.FxEvents)}
		}),
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("assemble components: %w", err)
	}
	return app, nil
}

// fxZapLogger 默认静默，开启 FxEvents 时输出开发格式日志
func fxZapLogger(enabled bool) *zap.Logger {
	if !enabled {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// rpcInjectParams 门面组件注入参数
type rpcInjectParams struct {
	fx.In

	Coordinator *lifecycle.Coordinator
	Buffer      *buffer.Buffer
	Traffic     metrics.Reporter
	Outbound    interfaces.Outbound
	Inbound     interfaces.Inbound
	Kind        transport.Kind
}

// injectRpcComponents 把容器中的组件注入门面
func injectRpcComponents(r *Rpc) func(rpcInjectParams) {
	return func(p rpcInjectParams) {
		r.state = p.Coordinator
		r.buf = p.Buffer
		r.traffic = p.Traffic
		r.outbound = p.Outbound
		r.inbound = p.Inbound
		r.kind = p.Kind
	}
}
