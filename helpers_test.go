package mpcrpc

import (
	"fmt"
	"math/rand"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-mpcrpc/config"
	"github.com/dep2p/go-mpcrpc/pkg/types"
)

// freePortBlock 返回 n 个连续空闲端口中的第一个
func freePortBlock(t *testing.T, n int) int {
	t.Helper()
	for attempt := 0; attempt < 100; attempt++ {
		base := 20000 + rand.Intn(40000)
		var lns []net.Listener
		ok := true
		for i := 0; i < n; i++ {
			ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", base+i))
			if err != nil {
				ok = false
				break
			}
			lns = append(lns, ln)
		}
		for _, ln := range lns {
			ln.Close()
		}
		if ok {
			return base
		}
	}
	t.Fatal("no free port block")
	return 0
}

// tcpParties 创建 n 个回环参与方
func tcpParties(t *testing.T, n int) []types.Party {
	t.Helper()
	base := freePortBlock(t, n)
	parties := make([]types.Party, n)
	for i := range parties {
		parties[i] = types.Party{ID: int32(i), Name: fmt.Sprintf("P_%d", i), Host: "127.0.0.1", Port: base + i}
	}
	return parties
}

func newTCPRpc(t *testing.T, own int32, parties []types.Party) *Rpc {
	t.Helper()
	set, err := types.NewPartySet(own, parties...)
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Transport.DialTimeout = config.Duration(5 * time.Second)
	cfg.Transport.DialRetryInterval = config.Duration(10 * time.Millisecond)
	r, err := New(set, WithConfig(cfg))
	require.NoError(t, err)
	return r
}

func newMemoryManager(t *testing.T, n int) *Manager {
	t.Helper()
	m, err := NewMemoryManager(n)
	require.NoError(t, err)
	return m
}

func canBind(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return ln.Close()
}
