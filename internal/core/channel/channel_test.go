package channel

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-channels/internal/core/eventbus"
	"github.com/dep2p/go-channels/pkg/buffer"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/middleware"
	"github.com/dep2p/go-channels/pkg/types"
)

// ============================================================================
//                              测试辅助
// ============================================================================

type fakeTransport struct {
	mu      sync.Mutex
	sent    [][]byte
	sendErr error
	closed  int
}

func (t *fakeTransport) Kind() types.TransportKind { return types.TransportTCP }
func (t *fakeTransport) LocalAddr() net.Addr { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 1} }
func (t *fakeTransport) RemoteAddr() net.Addr { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 2} }

func (t *fakeTransport) Send(_ context.Context, p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sendErr != nil {
		return 0, t.sendErr
	}
	t.sent = append(t.sent, append([]byte(nil), p...))
	return len(p), nil
}

func (t *fakeTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed++
	return nil
}

func (t *fakeTransport) Sent() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([][]byte(nil), t.sent...)
}

type fakeService struct {
	startErr error
	stopErr  error
	started  int
	stopped  int
	disposed int
	ch       pkgif.Channel
}

func (s *fakeService) Start(_ context.Context, ch pkgif.Channel) error {
	s.started++
	s.ch = ch
	return s.startErr
}

func (s *fakeService) Stop(context.Context) error {
	s.stopped++
	return s.stopErr
}

func (s *fakeService) Close() error {
	s.disposed++
	return nil
}

type countingListener struct {
	pkgif.NoopEventListener
	mu       sync.Mutex
	created  int
	closed   int
	received int
	sent     int
}

func (l *countingListener) ChannelCreated(pkgif.Channel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.created++
}

func (l *countingListener) ChannelClosed(pkgif.Channel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed++
}

func (l *countingListener) DataReceived(_ pkgif.Channel, data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.received += len(data)
}

func (l *countingListener) DataSent(_ pkgif.Channel, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sent += n
}

func echoProfile() *middleware.ChannelProfile {
	return &middleware.ChannelProfile{
		Name: "echo",
		InputAdapters: []middleware.Stage{
			middleware.AdapterFunc("forward", func(ctx pkgif.AdapterContext, p []byte) error {
				ctx.Forward(p)
				return nil
			}),
		},
		Handlers: []middleware.Stage{
			middleware.HandlerFunc("echo", func(ctx pkgif.PipelineContext, p []byte) error {
				ctx.Output().Push(p)
				return nil
			}),
		},
	}
}

// lineProfile 按 '\n' 切分，回写 "<line>!\n"
func lineProfile() *middleware.ChannelProfile {
	return &middleware.ChannelProfile{
		Name: "lines",
		InputAdapters: []middleware.Stage{
			middleware.AdapterFunc("lines", func(ctx pkgif.AdapterContext, b *buffer.Buffer) error {
				for {
					i, err := b.IndexOf('\n', buffer.CurrentOffset)
					if err != nil {
						return err
					}
					if i < 0 {
						return nil
					}
					line, err := b.ReadBytes(i - b.Offset())
					if err != nil {
						return err
					}
					if err := b.SkipBytes(1); err != nil {
						return err
					}
					ctx.Forward(string(line))
				}
			}),
		},
		Handlers: []middleware.Stage{
			middleware.HandlerFunc("reply", func(ctx pkgif.PipelineContext, line string) error {
				ctx.Output().Push(line + "!\n")
				return nil
			}),
		},
	}
}

func newTestChannel(t *testing.T, profile *middleware.ChannelProfile, cfg Config) (*Channel, *fakeTransport) {
	t.Helper()
	pipes, err := NewPipelines(profile)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pipes.Close() })

	tr := &fakeTransport{}
	cfg.Transport = tr
	cfg.Pipelines = pipes
	ch, err := New(cfg)
	require.NoError(t, err)
	return ch, tr
}

// ============================================================================
//                              测试用例
// ============================================================================

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoTransport)

	_, err = New(Config{Transport: &fakeTransport{}})
	assert.ErrorIs(t, err, ErrNoPipelines)
}

func TestReceive_EchoOnce(t *testing.T) {
	ch, tr := newTestChannel(t, echoProfile(), Config{})
	ch.Initialize(context.Background())

	require.NoError(t, ch.Receive(context.Background(), []byte("hello")))

	sent := tr.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []byte("hello"), sent[0])
	assert.Equal(t, 0, ch.Pending())
}

func TestReceive_PartialReassembly(t *testing.T) {
	ch, tr := newTestChannel(t, lineProfile(), Config{})
	ctx := context.Background()

	err := ch.Receive(ctx, []byte("hel"))
	assert.Error(t, err, "decoder waits for more bytes")
	assert.Empty(t, tr.Sent())
	assert.Equal(t, 3, ch.Pending())

	require.NoError(t, ch.Receive(ctx, []byte("lo\nwo")))
	assert.Equal(t, [][]byte{[]byte("hello!\n")}, tr.Sent())
	assert.Equal(t, 2, ch.Pending())

	require.NoError(t, ch.Receive(ctx, []byte("rld\na\nb")))
	assert.Equal(t, [][]byte{[]byte("hello!\n"), []byte("world!\n"), []byte("a!\n")}, tr.Sent())
	assert.Equal(t, 1, ch.Pending())
}

func TestReceiveMessage_Text(t *testing.T) {
	profile := &middleware.ChannelProfile{
		Name: "ws",
		Handlers: []middleware.Stage{
			middleware.HandlerFunc("upper", func(ctx pkgif.PipelineContext, m *types.Message) error {
				ctx.Output().Push("got:" + m.Text())
				return nil
			}),
		},
	}
	ch, tr := newTestChannel(t, profile, Config{})

	require.NoError(t, ch.ReceiveMessage(context.Background(), types.NewTextMessage("hi")))
	assert.Equal(t, [][]byte{[]byte("got:hi")}, tr.Sent())
}

func TestTimestamps(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ch, _ := newTestChannel(t, echoProfile(), Config{Clock: mock})

	assert.Equal(t, mock.Now(), ch.CreatedAt())
	assert.True(t, ch.LastReceivedAt().IsZero())
	assert.True(t, ch.LastSentAt().IsZero())

	mock.Add(time.Second)
	require.NoError(t, ch.Receive(context.Background(), []byte("x")))
	assert.Equal(t, mock.Now(), ch.LastReceivedAt())
	assert.Equal(t, mock.Now(), ch.LastSentAt())
}

func TestListenersNotified(t *testing.T) {
	l := &countingListener{}
	ch, _ := newTestChannel(t, echoProfile(), Config{Listeners: eventbus.NewRegistry(l)})

	ch.Initialize(context.Background())
	ch.Initialize(context.Background())
	require.NoError(t, ch.Receive(context.Background(), []byte("abc")))
	require.NoError(t, ch.Close(context.Background()))
	require.NoError(t, ch.Close(context.Background()))

	assert.Equal(t, 1, l.created)
	assert.Equal(t, 1, l.closed)
	assert.Equal(t, 3, l.received)
	assert.Equal(t, 3, l.sent)
}

type panickingListener struct {
	pkgif.NoopEventListener
}

func (panickingListener) DataReceived(pkgif.Channel, []byte) { panic("listener failed") }
func (panickingListener) ChannelClosed(pkgif.Channel) { panic("listener failed") }

// TestListenersPanicIsolated 测试直接传入的监听器 panic 不影响收发和关闭
func TestListenersPanicIsolated(t *testing.T) {
	ch, tr := newTestChannel(t, echoProfile(), Config{Listeners: panickingListener{}})

	require.NotPanics(t, func() {
		require.NoError(t, ch.Receive(context.Background(), []byte("x")))
	})
	assert.Equal(t, [][]byte{[]byte("x")}, tr.Sent())
	require.NotPanics(t, func() {
		require.NoError(t, ch.Close(context.Background()))
	})
	assert.True(t, ch.IsClosed())
}

func TestServices_FailuresIsolated(t *testing.T) {
	stopErr := errors.New("stop failed")
	s1 := &fakeService{startErr: errors.New("start failed"), stopErr: stopErr}
	s2 := &fakeService{}
	ch, _ := newTestChannel(t, echoProfile(), Config{Services: []pkgif.ChannelService{s1, s2}})

	ch.Initialize(context.Background())
	assert.Equal(t, 1, s1.started)
	assert.Equal(t, 1, s2.started)
	assert.Same(t, ch, s2.ch)

	err := ch.Close(context.Background())
	assert.ErrorIs(t, err, stopErr)
	for _, s := range []*fakeService{s1, s2} {
		assert.Equal(t, 1, s.stopped)
		assert.Equal(t, 1, s.disposed)
	}
}

func TestClose_Idempotent(t *testing.T) {
	ch, tr := newTestChannel(t, echoProfile(), Config{})
	hooks := 0
	ch.OnClose(func() { hooks++ })

	require.NoError(t, ch.Close(context.Background()))
	require.NoError(t, ch.Close(context.Background()))

	assert.True(t, ch.IsClosed())
	assert.Equal(t, 1, tr.closed)
	assert.Equal(t, 1, hooks)
	assert.False(t, ch.Poll())

	select {
	case <-ch.Done():
	default:
		t.Fatal("Done not closed")
	}
	assert.Error(t, ch.Context().Err())

	// 关闭后注册的回调立即执行
	ch.OnClose(func() { hooks++ })
	assert.Equal(t, 2, hooks)

	assert.ErrorIs(t, ch.Write(context.Background(), []byte("x")), ErrChannelClosed)
	assert.ErrorIs(t, ch.Receive(context.Background(), []byte("x")), ErrChannelClosed)
	assert.Empty(t, tr.Sent())
}

func TestSendFailureClosesChannel(t *testing.T) {
	ch, tr := newTestChannel(t, echoProfile(), Config{})
	tr.sendErr = errors.New("connection reset")

	err := ch.Write(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.True(t, ch.IsClosed())
	assert.Equal(t, 1, tr.closed)
}

func TestWrite_StringOnByteTransport(t *testing.T) {
	ch, tr := newTestChannel(t, echoProfile(), Config{})
	require.NoError(t, ch.Write(context.Background(), "text"))
	require.NoError(t, ch.Write(context.Background(), buffer.NewReadable([]byte("buf"), buffer.BigEndian)))
	assert.Equal(t, [][]byte{[]byte("text"), []byte("buf")}, tr.Sent())
}

// TestWrite_MessageSentOnce 测试每个输出值只经一个传输终端写出
func TestWrite_MessageSentOnce(t *testing.T) {
	ch, tr := newTestChannel(t, echoProfile(), Config{})
	require.NoError(t, ch.Write(context.Background(), types.NewTextMessage("msg")))
	require.NoError(t, ch.Write(context.Background(), [][]byte{[]byte("a"), []byte("b")}))
	require.NoError(t, ch.Write(context.Background(), 42))
	assert.Equal(t, [][]byte{[]byte("msg"), []byte("a"), []byte("b")}, tr.Sent())
}

// TestReceiveMessage_ByteProfile 测试文本消息的负载进入期望字节的处理器
func TestReceiveMessage_ByteProfile(t *testing.T) {
	ch, tr := newTestChannel(t, echoProfile(), Config{})
	require.NoError(t, ch.ReceiveMessage(context.Background(), types.NewTextMessage("hi")))
	assert.Equal(t, [][]byte{[]byte("hi")}, tr.Sent())
}

// TestWrite_NestedFromOutputAdapter 测试输出适配器内再次写入同一通道不会死锁
func TestWrite_NestedFromOutputAdapter(t *testing.T) {
	profile := echoProfile()
	profile.OutputAdapters = []middleware.Stage{
		middleware.AdapterFunc("frame", func(ctx pkgif.AdapterContext, s string) error {
			ctx.Forward([]byte("<" + s + ">"))
			if s != "end" {
				return ctx.Channel().Write(ctx.Context(), "end")
			}
			return nil
		}),
	}
	ch, tr := newTestChannel(t, profile, Config{})

	done := make(chan error, 1)
	go func() { done <- ch.Write(context.Background(), "body") }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("nested write did not return")
	}
	assert.Equal(t, [][]byte{[]byte("<end>"), []byte("<body>")}, tr.Sent())

	// 嵌套写入结束后通道仍可正常写入
	require.NoError(t, ch.Write(context.Background(), []byte("x")))
}

func TestIsNormalClose(t *testing.T) {
	assert.True(t, IsNormalClose(nil))
	assert.True(t, IsNormalClose(net.ErrClosed))
	assert.True(t, IsNormalClose(ErrChannelClosed))
	assert.False(t, IsNormalClose(errors.New("reset")))
}
