package tcp

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-channels/internal/core/reconnect"
	"github.com/dep2p/go-channels/internal/core/transport"
	"github.com/dep2p/go-channels/internal/core/transport/transporttest"
	"github.com/dep2p/go-channels/pkg/types"
)

func startListener(t *testing.T, opts transport.Options) *Listener {
	t.Helper()
	opts.Address = "127.0.0.1"
	l, err := Listen(context.Background(), opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	return l
}

func port(t *testing.T, addr net.Addr) int {
	t.Helper()
	_, p, err := net.SplitHostPort(addr.String())
	require.NoError(t, err)
	n, err := strconv.Atoi(p)
	require.NoError(t, err)
	return n
}

// TestListener_LineEcho 测试分段到达的行被合并处理
func TestListener_LineEcho(t *testing.T) {
	rec := &transporttest.Recorder{}
	l := startListener(t, transport.Options{
		Pipelines: transporttest.Pipelines(t, transporttest.LineProfile()),
		Listeners: rec,
	})

	conn, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("hel"))
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = conn.Write([]byte("lo\nworld\n"))
	require.NoError(t, err)

	r := bufio.NewReader(conn)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "hello!\n", line)
	line, err = r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "world!\n", line)

	require.Eventually(t, func() bool { return len(l.Channels()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, types.TransportTCP, l.Channels()[0].Transport())
	assert.Equal(t, 1, rec.Created())
}

// TestListener_RemoteCloseRemovesChannel 测试对端断开后通道被移除
func TestListener_RemoteCloseRemovesChannel(t *testing.T) {
	rec := &transporttest.Recorder{}
	l := startListener(t, transport.Options{
		Pipelines: transporttest.Pipelines(t, transporttest.EchoProfile()),
		Listeners: rec,
	})

	conn, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(l.Channels()) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return len(l.Channels()) == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, rec.Closed())
}

// TestListener_IdleTimeout 测试读空闲超时关闭连接
func TestListener_IdleTimeout(t *testing.T) {
	l := startListener(t, transport.Options{
		Pipelines:   transporttest.Pipelines(t, transporttest.EchoProfile()),
		IdleMode:    types.IdleRead,
		IdleTimeout: 100 * time.Millisecond,
	})

	conn, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = conn.Read(make([]byte, 1))
	assert.Error(t, err, "server should close the idle connection")
	require.Eventually(t, func() bool { return len(l.Channels()) == 0 }, time.Second, 10*time.Millisecond)
}

// TestListener_MaxConnections 测试连接数上限
func TestListener_MaxConnections(t *testing.T) {
	l := startListener(t, transport.Options{
		Pipelines:      transporttest.Pipelines(t, transporttest.EchoProfile()),
		MaxConnections: 1,
	})

	first, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(l.Channels()) == 1 }, time.Second, 10*time.Millisecond)

	// 第二条连接停留在积压队列中，不会创建通道
	second, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	defer second.Close()
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, l.Channels(), 1)

	require.NoError(t, first.Close())
	require.Eventually(t, func() bool { return len(l.Channels()) == 1 && l.Channels()[0].RemoteAddr().String() == second.LocalAddr().String() },
		2*time.Second, 10*time.Millisecond)
}

// TestListener_Backlog 测试设置积压队列后仍可正常接入
func TestListener_Backlog(t *testing.T) {
	l := startListener(t, transport.Options{
		Pipelines: transporttest.Pipelines(t, transporttest.EchoProfile()),
		Backlog:   16,
	})

	conn, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("ping"))
	require.NoError(t, err)
	buf := make([]byte, 4)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = conn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))
}

// TestListener_Close 测试关闭监听器会关闭所有通道
func TestListener_Close(t *testing.T) {
	l, err := Listen(context.Background(), transport.Options{
		Address:   "127.0.0.1",
		Pipelines: transporttest.Pipelines(t, transporttest.EchoProfile()),
	})
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- l.Serve(context.Background()) }()

	conn, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return len(l.Channels()) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, l.Close())
	require.NoError(t, <-done)
	assert.Empty(t, l.Channels())
	assert.NoError(t, l.Close())
	assert.ErrorIs(t, l.Serve(context.Background()), transport.ErrListenerClosed)
}

// TestClient_Reconnect 测试客户端在服务端断开后重新连接
func TestClient_Reconnect(t *testing.T) {
	l := startListener(t, transport.Options{
		Pipelines: transporttest.Pipelines(t, transporttest.EchoProfile()),
	})

	client, err := NewClient(transport.Options{
		Address:   "127.0.0.1",
		Port:      port(t, l.Addr()),
		Pipelines: transporttest.Pipelines(t, transporttest.EchoProfile()),
	})
	require.NoError(t, err)

	loop := reconnect.New(client, reconnect.Config{
		Name:            "tcp-test",
		Backoff:         reconnect.Backoff{Base: 10 * time.Millisecond, Max: 50 * time.Millisecond},
		MonitorInterval: 10 * time.Millisecond,
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	require.Eventually(t, func() bool { return loop.State() == types.ConnStateConnected }, 2*time.Second, 10*time.Millisecond)
	first := loop.Channel()
	require.NotNil(t, first)
	require.Eventually(t, func() bool { return len(l.Channels()) == 1 }, time.Second, 10*time.Millisecond)

	// 服务端关闭通道，客户端检测到断开后重连
	require.NoError(t, l.Channels()[0].Close(context.Background()))
	require.Eventually(t, func() bool {
		ch := loop.Channel()
		return ch != nil && ch != first && loop.State() == types.ConnStateConnected
	}, 3*time.Second, 10*time.Millisecond)
}

// TestOptions_Invalid 测试无效选项
func TestOptions_Invalid(t *testing.T) {
	_, err := Listen(context.Background(), transport.Options{})
	assert.ErrorIs(t, err, transport.ErrNoPipelines)

	_, err = NewClient(transport.Options{
		Pipelines: transporttest.Pipelines(t, transporttest.EchoProfile()),
		IdleMode:  types.IdleRead,
	})
	assert.Error(t, err)
}
