package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/lib/log"
)

var logger = log.Logger("core/metrics")

// DefaultNamespace 默认指标名前缀
const DefaultNamespace = "channels"

// Collector 通道事件指标
type Collector struct {
	created  *prometheus.CounterVec
	closed   *prometheus.CounterVec
	active   *prometheus.GaugeVec
	bytesIn  *prometheus.CounterVec
	bytesOut *prometheus.CounterVec
	events   *prometheus.CounterVec
	lifetime *prometheus.HistogramVec
}

var (
	_ pkgif.ChannelEventListener = (*Collector)(nil)
	_ prometheus.Collector       = (*Collector)(nil)
)

// NewCollector 创建指标集合
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	transport := []string{"transport"}
	return &Collector{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "created_total",
			Help:      "Total number of channels created",
		}, transport),
		closed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "closed_total",
			Help:      "Total number of channels closed",
		}, transport),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active",
			Help:      "Number of open channels",
		}, transport),
		bytesIn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_received_total",
			Help:      "Total bytes received from transports",
		}, transport),
		bytesOut: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_sent_total",
			Help:      "Total bytes written to transports",
		}, transport),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Total number of custom channel events by name",
		}, []string{"transport", "event"}),
		lifetime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lifetime_seconds",
			Help:      "Channel lifetime from creation to close",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}, transport),
	}
}

func (c *Collector) all() []prometheus.Collector {
	return []prometheus.Collector{c.created, c.closed, c.active, c.bytesIn, c.bytesOut, c.events, c.lifetime}
}

// Describe 实现 prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.all() {
		m.Describe(ch)
	}
}

// Collect 实现 prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.all() {
		m.Collect(ch)
	}
}

// Register 注册到 reg；已注册过同一个 Collector 时不报错
func (c *Collector) Register(reg prometheus.Registerer) error {
	if reg == nil {
		return nil
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) && are.ExistingCollector == prometheus.Collector(c) {
			return nil
		}
		return err
	}
	return nil
}

// ============================================================================
//                              ChannelEventListener 实现
// ============================================================================

// ChannelCreated 实现 ChannelEventListener
func (c *Collector) ChannelCreated(ch pkgif.Channel) {
	kind := ch.Transport().String()
	c.created.WithLabelValues(kind).Inc()
	c.active.WithLabelValues(kind).Inc()
}

// ChannelClosed 实现 ChannelEventListener
func (c *Collector) ChannelClosed(ch pkgif.Channel) {
	kind := ch.Transport().String()
	c.closed.WithLabelValues(kind).Inc()
	c.active.WithLabelValues(kind).Dec()
	if created := ch.CreatedAt(); !created.IsZero() {
		c.lifetime.WithLabelValues(kind).Observe(time.Since(created).Seconds())
	}
}

// DataReceived 实现 ChannelEventListener
func (c *Collector) DataReceived(ch pkgif.Channel, data []byte) {
	c.bytesIn.WithLabelValues(ch.Transport().String()).Add(float64(len(data)))
}

// DataSent 实现 ChannelEventListener
func (c *Collector) DataSent(ch pkgif.Channel, n int) {
	c.bytesOut.WithLabelValues(ch.Transport().String()).Add(float64(n))
}

// CustomEvent 实现 ChannelEventListener
func (c *Collector) CustomEvent(ch pkgif.Channel, name string, _ any) {
	c.events.WithLabelValues(ch.Transport().String(), name).Inc()
}
