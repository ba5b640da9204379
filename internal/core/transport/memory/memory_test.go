package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-mpcrpc/config"
	"github.com/dep2p/go-mpcrpc/internal/core/buffer"
	"github.com/dep2p/go-mpcrpc/internal/core/codec"
	"github.com/dep2p/go-mpcrpc/pkg/interfaces"
	"github.com/dep2p/go-mpcrpc/pkg/types"
)

var (
	p0 = types.Party{ID: 0, Name: "P0", Host: "local", Port: 1}
	p1 = types.Party{ID: 1, Name: "P1", Host: "local", Port: 2}
)

func TestHub_SendReceive(t *testing.T) {
	hub := NewHub()
	buf := buffer.New()
	l := NewListener(hub, p1, buf)
	require.NoError(t, l.Start(context.Background()))
	assert.Equal(t, "memory://1", l.Addr())

	h := types.NewDataPacketHeader(1, 2, 3, 0, 0, 1)
	p, err := types.NewEqualSizeDataPacket(h, [][]byte{{1, 2}, {3, 4}})
	require.NoError(t, err)
	frame, err := codec.EncodeFrame(p)
	require.NoError(t, err)

	require.NoError(t, NewSender(hub, 0).Send(context.Background(), p1, frame))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, ok := buf.Take(ctx, h)
	require.True(t, ok)
	assert.Equal(t, types.PayloadEqualSize, got.Type)
	assert.Equal(t, [][]byte{{1, 2}, {3, 4}}, got.Payload)
}

func TestHub_Offline(t *testing.T) {
	hub := NewHub()
	frame, err := codec.EncodeFrame(types.NewEmptyDataPacket(types.NewDataPacketHeader(0, 0, 0, 0, 0, 1)))
	require.NoError(t, err)

	err = NewSender(hub, 20*time.Millisecond).Send(context.Background(), p1, frame)
	assert.ErrorIs(t, err, ErrPartyOffline)

	l := NewListener(hub, p1, buffer.New())
	require.NoError(t, l.Start(context.Background()))
	require.NoError(t, l.Stop(context.Background()))
	<-l.Done()
	assert.False(t, hub.Online(1))
	assert.Empty(t, l.Addr())

	err = NewSender(hub, 20*time.Millisecond).Send(context.Background(), p1, frame)
	assert.ErrorIs(t, err, ErrPartyOffline)
}

func TestHub_DuplicateRegister(t *testing.T) {
	hub := NewHub()
	require.NoError(t, NewListener(hub, p0, buffer.New()).Start(context.Background()))
	err := NewListener(hub, p0, buffer.New()).Start(context.Background())
	assert.ErrorIs(t, err, ErrPartyRegistered)
}

func TestHub_MalformedFrame(t *testing.T) {
	hub := NewHub()
	require.NoError(t, hub.Register(1, buffer.New()))
	err := NewSender(hub, 0).Send(context.Background(), p1, []byte{0x05, 0x01})
	assert.ErrorIs(t, err, codec.ErrMalformedMessage)
}

func TestModule_Lifecycle(t *testing.T) {
	hub := NewHub()
	set, err := types.NewPartySet(1, p0, p1)
	require.NoError(t, err)

	var inbound interfaces.Inbound
	app := fxtest.New(t,
		fx.Supply(config.DefaultConfig(), set),
		buffer.Module(),
		Module(hub),
		fx.Populate(&inbound),
	)
	app.RequireStart()
	assert.True(t, hub.Online(1))
	assert.Equal(t, "memory://1", inbound.Addr())

	app.RequireStop()
	assert.False(t, hub.Online(1))
}

func TestHub_WaitsForReceiver(t *testing.T) {
	hub := NewHub()
	h := types.NewDataPacketHeader(1, 1, 1, 0, 0, 1)
	frame, err := codec.EncodeFrame(types.NewEmptyDataPacket(h))
	require.NoError(t, err)

	sent := make(chan error, 1)
	go func() { sent <- NewSender(hub, 5*time.Second).Send(context.Background(), p1, frame) }()

	time.Sleep(20 * time.Millisecond)
	buf := buffer.New()
	require.NoError(t, hub.Register(1, buf))
	require.NoError(t, <-sent)
	assert.Equal(t, 1, buf.Pending())

	err = NewSender(hub, 20*time.Millisecond).Send(context.Background(), p0, frame)
	assert.ErrorIs(t, err, ErrPartyOffline)
}

func TestHub_UnboundedWait(t *testing.T) {
	hub := NewHub()
	h := types.NewDataPacketHeader(1, 1, 1, 0, 0, 1)
	frame, err := codec.EncodeFrame(types.NewEmptyDataPacket(h))
	require.NoError(t, err)

	// wait 为 0 时不设时限，接收方晚到也能送达
	sent := make(chan error, 1)
	go func() { sent <- NewSender(hub, 0).Send(context.Background(), p1, frame) }()

	time.Sleep(200 * time.Millisecond)
	buf := buffer.New()
	require.NoError(t, hub.Register(1, buf))
	require.NoError(t, <-sent)
	assert.Equal(t, 1, buf.Pending())

	// 只由 ctx 终止
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err = NewSender(hub, 0).Send(ctx, p0, frame)
	assert.ErrorIs(t, err, ErrPartyOffline)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
