package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-channels/config"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/types"
)

// fakeChannel 只实现指标需要的方法
type fakeChannel struct {
	pkgif.Channel
	kind    types.TransportKind
	created time.Time
}

func (c *fakeChannel) Transport() types.TransportKind { return c.kind }
func (c *fakeChannel) CreatedAt() time.Time           { return c.created }

// TestCollector_Lifecycle 测试创建/关闭计数和活跃数
func TestCollector_Lifecycle(t *testing.T) {
	c := NewCollector("test")
	tcp := &fakeChannel{kind: types.TransportTCP, created: time.Now().Add(-time.Second)}
	udp := &fakeChannel{kind: types.TransportUDP, created: time.Now()}

	c.ChannelCreated(tcp)
	c.ChannelCreated(tcp)
	c.ChannelCreated(udp)
	c.ChannelClosed(tcp)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.created.WithLabelValues("tcp")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.closed.WithLabelValues("tcp")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.active.WithLabelValues("tcp")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.active.WithLabelValues("udp")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.lifetime))
}

// TestCollector_Bytes 测试收发字节统计
func TestCollector_Bytes(t *testing.T) {
	c := NewCollector("")
	ch := &fakeChannel{kind: types.TransportWebSocket}

	c.DataReceived(ch, []byte("hello"))
	c.DataReceived(ch, []byte("!"))
	c.DataSent(ch, 7)

	assert.Equal(t, 6.0, testutil.ToFloat64(c.bytesIn.WithLabelValues("websocket")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.bytesOut.WithLabelValues("websocket")))
}

// TestCollector_CustomEvent 测试自定义事件按名称计数
func TestCollector_CustomEvent(t *testing.T) {
	c := NewCollector("")
	ch := &fakeChannel{kind: types.TransportTCP}

	c.CustomEvent(ch, types.EventIdleTimeout, time.Second)
	c.CustomEvent(ch, types.EventIdleTimeout, time.Second)
	c.CustomEvent(ch, types.EventPollFailed, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.events.WithLabelValues("tcp", types.EventIdleTimeout)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.events.WithLabelValues("tcp", types.EventPollFailed)))
}

// TestCollector_Register 测试重复注册同一实例不报错
func TestCollector_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("dup")

	require.NoError(t, c.Register(reg))
	require.NoError(t, c.Register(reg))
	require.NoError(t, c.Register(nil))

	other := NewCollector("dup")
	assert.Error(t, other.Register(reg))

	c.ChannelCreated(&fakeChannel{kind: types.TransportTCP})
	count, err := testutil.GatherAndCount(reg, "dup_created_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

type moduleOutput struct {
	fx.In

	Collector *Collector
	Listeners []pkgif.ChannelEventListener `group:"channel_listeners"`
}

// TestModule 测试 fx 模块按配置提供监听器
func TestModule(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		var got moduleOutput
		app := fxtest.New(t,
			Module(),
			fx.Provide(func() prometheus.Registerer { return reg }),
			fx.Invoke(func(out moduleOutput) { got = out }),
		)
		app.RequireStart()
		defer app.RequireStop()

		require.NotNil(t, got.Collector)
		require.Len(t, got.Listeners, 1)
		assert.Same(t, got.Collector, got.Listeners[0])
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.Metrics.Enabled = false
		var got moduleOutput
		app := fxtest.New(t,
			Module(),
			fx.Supply(cfg),
			fx.Provide(func() prometheus.Registerer { return prometheus.NewRegistry() }),
			fx.Invoke(func(out moduleOutput) { got = out }),
		)
		app.RequireStart()
		defer app.RequireStop()

		assert.Nil(t, got.Collector)
		assert.Empty(t, got.Listeners)
	})
}
