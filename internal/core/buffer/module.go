package buffer

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-mpcrpc/pkg/interfaces"
)

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	// Buffer 缓冲区本体，供门面调用 Take/TakeAny
	Buffer *Buffer

	// Sink 入站路径写入端
	Sink interfaces.PacketSink
}

// ProvideServices 提供模块服务
func ProvideServices() ModuleOutput {
	b := New()
	return ModuleOutput{Buffer: b, Sink: b}
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("buffer",
		fx.Provide(ProvideServices),
	)
}
