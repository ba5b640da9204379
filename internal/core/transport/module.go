package transport

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-mpcrpc/internal/core/transport/memory"
	"github.com/dep2p/go-mpcrpc/internal/core/transport/tcp"
	"github.com/dep2p/go-mpcrpc/pkg/lib/log"
)

var logger = log.Logger("core/transport")

// Kind 传输类型
type Kind int

const (
	// KindTCP TCP 传输
	KindTCP Kind = iota

	// KindMemory 进程内传输
	KindMemory
)

// String 返回传输类型名称
func (k Kind) String() string {
	switch k {
	case KindTCP:
		return "tcp"
	case KindMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// KindOf 根据是否提供 Hub 选择传输类型
func KindOf(hub *memory.Hub) Kind {
	if hub != nil {
		return KindMemory
	}
	return KindTCP
}

// Module 返回 Fx 模块
func Module(hub *memory.Hub) fx.Option {
	kind := KindOf(hub)
	logger.Debug("选择传输层", "kind", kind.String())

	var impl fx.Option
	switch kind {
	case KindMemory:
		impl = memory.Module(hub)
	default:
		impl = tcp.Module()
	}
	return fx.Module("transport",
		fx.Supply(kind),
		impl,
	)
}
