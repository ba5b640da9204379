package metrics

import (
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/dep2p/go-mpcrpc/pkg/interfaces"
	"github.com/dep2p/go-mpcrpc/pkg/types"
)

// Stats 流量统计快照
type Stats struct {
	PayloadBytes    int64   // 逻辑载荷字节
	SerializedBytes int64   // 帧字节（含长度前缀）
	SentPackets     int64   // 发送数据包数
	RecvPackets     int64   // 入站数据包数
	SendRate        float64 // 最近 60 秒发送速率（字节/秒）
}

// Reporter 记录与读取流量统计
type Reporter interface {
	// LogSent 记录一次发送
	LogSent(payloadBytes, serializedBytes int64)

	// LogRecv 记录一个入站数据包
	LogRecv()

	// Stats 返回当前快照
	Stats() Stats

	// Reset 清零全部统计
	Reset()
}

// Traffic 单个参与方的流量统计
type Traffic struct {
	party int32

	payload    atomic.Int64
	serialized atomic.Int64
	sent       atomic.Int64
	recv       atomic.Int64
	rate       *RateMeter
}

// 确保实现接口
var _ Reporter = (*Traffic)(nil)

// NewTraffic 创建流量统计
func NewTraffic(party int32) *Traffic {
	return &Traffic{party: party, rate: NewRateMeter()}
}

// LogSent 记录一次发送
func (t *Traffic) LogSent(payloadBytes, serializedBytes int64) {
	t.payload.Add(payloadBytes)
	t.serialized.Add(serializedBytes)
	t.sent.Add(1)
	t.rate.Add(serializedBytes)
}

// LogRecv 记录一个入站数据包
func (t *Traffic) LogRecv() {
	t.recv.Add(1)
}

// PayloadBytes 返回累计逻辑载荷字节数
func (t *Traffic) PayloadBytes() int64 { return t.payload.Load() }

// SerializedBytes 返回累计帧字节数
func (t *Traffic) SerializedBytes() int64 { return t.serialized.Load() }

// SentPackets 返回累计发送数据包数
func (t *Traffic) SentPackets() int64 { return t.sent.Load() }

// Stats 返回当前快照
func (t *Traffic) Stats() Stats {
	return Stats{
		PayloadBytes:    t.PayloadBytes(),
		SerializedBytes: t.SerializedBytes(),
		SentPackets:     t.SentPackets(),
		RecvPackets:     t.recv.Load(),
		SendRate:        t.rate.Rate(),
	}
}

// Reset 清零全部统计
//
// 与并发发送交错时，各计数器各自原子清零，快照不保证彼此一致。
func (t *Traffic) Reset() {
	t.payload.Store(0)
	t.serialized.Store(0)
	t.sent.Store(0)
	t.recv.Store(0)
	t.rate.Reset()
}

// Collectors 返回导出到 Prometheus 的指标
func (t *Traffic) Collectors() []prometheus.Collector {
	labels := prometheus.Labels{"party": strconv.Itoa(int(t.party))}
	gauge := func(name, help string, f func() float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "mpcrpc",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, f)
	}
	return []prometheus.Collector{
		gauge("send_payload_bytes", "Logical payload bytes sent.", func() float64 { return float64(t.PayloadBytes()) }),
		gauge("send_serialized_bytes", "Serialized frame bytes sent, including length prefixes.", func() float64 { return float64(t.SerializedBytes()) }),
		gauge("send_packets", "Data packets sent.", func() float64 { return float64(t.SentPackets()) }),
		gauge("send_rate_bytes", "Average send rate over the last 60 seconds in bytes per second.", t.rate.Rate),
		gauge("recv_packets", "Data packets received.", func() float64 { return float64(t.recv.Load()) }),
	}
}

// Register 注册全部指标
func (t *Traffic) Register(reg prometheus.Registerer) error {
	var err error
	for _, c := range t.Collectors() {
		err = multierr.Append(err, reg.Register(c))
	}
	return err
}

// ============================================================================
//                              入站计数
// ============================================================================

// countingSink 在写入下游前计数
type countingSink struct {
	next    interfaces.PacketSink
	traffic *Traffic
}

// CountingSink 包装 PacketSink，每写入一个数据包计一次入站
func CountingSink(next interfaces.PacketSink, t *Traffic) interfaces.PacketSink {
	return &countingSink{next: next, traffic: t}
}

func (s *countingSink) Put(packet *types.DataPacket) {
	if packet == nil {
		return
	}
	s.traffic.LogRecv()
	s.next.Put(packet)
}
