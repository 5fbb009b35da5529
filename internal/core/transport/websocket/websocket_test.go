package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-channels/internal/core/transport"
	"github.com/dep2p/go-channels/internal/core/transport/transporttest"
	"github.com/dep2p/go-channels/pkg/buffer"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/middleware"
	"github.com/dep2p/go-channels/pkg/types"
)

// textProfile 文本消息回写 "<text>!"，并记录收到的消息长度
func textProfile(sizes chan<- int) *middleware.ChannelProfile {
	return &middleware.ChannelProfile{
		Name: "text",
		Handlers: []middleware.Stage{
			middleware.HandlerFunc("reply", func(ctx pkgif.PipelineContext, m *types.Message) error {
				if sizes != nil {
					sizes <- m.Payload.Len()
				}
				ctx.Output().Push(m.Text() + "!")
				return nil
			}),
		},
	}
}

func startHandler(t *testing.T, opts Options) (*Listener, string) {
	t.Helper()
	l, err := NewHandler(opts)
	require.NoError(t, err)
	srv := httptest.NewServer(l)
	t.Cleanup(func() {
		require.NoError(t, l.Close())
		srv.Close()
	})
	return l, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	return ws
}

// TestReassembler 测试文本与二进制分片分别重组
func TestReassembler(t *testing.T) {
	r := newReassembler(buffer.BigEndian)
	frag := func(kind types.MessageType, s string, end bool) *types.Message {
		return &types.Message{Type: kind, Payload: buffer.NewReadable([]byte(s), buffer.BigEndian), EndOfMessage: end}
	}

	m, err := r.add(frag(types.MessageText, "hel", false))
	require.NoError(t, err)
	assert.Nil(t, m)
	m, err = r.add(frag(types.MessageBinary, "\x01\x02", false))
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Equal(t, 3, r.pending(types.MessageText))
	assert.Equal(t, 2, r.pending(types.MessageBinary))

	m, err = r.add(frag(types.MessageText, "lo", true))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "hello", m.Text())
	assert.True(t, m.EndOfMessage)
	assert.True(t, m.Payload.IsReadable())
	assert.Equal(t, 0, r.pending(types.MessageText))

	m, err = r.add(frag(types.MessageBinary, "\x03", true))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, []byte{1, 2, 3}, m.Bytes())
}

// TestHandler_BinaryStream 测试二进制消息按字节流进入通道缓冲区
func TestHandler_BinaryStream(t *testing.T) {
	_, url := startHandler(t, Options{Options: transport.Options{
		Pipelines: transporttest.Pipelines(t, transporttest.LineProfile()),
	}})
	ws := dial(t, url)

	require.NoError(t, ws.WriteMessage(websocket.BinaryMessage, []byte("hel")))
	require.NoError(t, ws.WriteMessage(websocket.BinaryMessage, []byte("lo\n")))

	mt, data, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, mt)
	assert.Equal(t, "hello!\n", string(data))
}

// TestHandler_TextMessage 测试文本消息按块读取后整条进入管道
func TestHandler_TextMessage(t *testing.T) {
	sizes := make(chan int, 1)
	_, url := startHandler(t, Options{Options: transport.Options{
		Pipelines:      transporttest.Pipelines(t, textProfile(sizes)),
		ReadBufferSize: 4,
	}})
	ws := dial(t, url)

	text := strings.Repeat("abc", 5)
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(text)))

	mt, data, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, mt)
	assert.Equal(t, text+"!", string(data))
	assert.Equal(t, len(text), <-sizes)
}

// TestHandler_TextToByteProfiles 测试文本消息的负载进入期望字节或缓冲区的管道
func TestHandler_TextToByteProfiles(t *testing.T) {
	_, lineURL := startHandler(t, Options{Options: transport.Options{
		Pipelines: transporttest.Pipelines(t, transporttest.LineProfile()),
	}})
	ws := dial(t, lineURL)
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("hello\n")))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "hello!\n", string(data))

	_, echoURL := startHandler(t, Options{Options: transport.Options{
		Pipelines: transporttest.Pipelines(t, transporttest.EchoProfile()),
	}})
	ws = dial(t, echoURL)
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("hello")))
	_, data, err = ws.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

// TestHandler_CloseFrame 测试关闭帧关闭通道
func TestHandler_CloseFrame(t *testing.T) {
	rec := &transporttest.Recorder{}
	l, url := startHandler(t, Options{Options: transport.Options{
		Pipelines: transporttest.Pipelines(t, transporttest.EchoProfile()),
		Listeners: rec,
	}})
	ws := dial(t, url)
	require.Eventually(t, func() bool { return len(l.Channels()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, types.TransportWebSocket, l.Channels()[0].Transport())

	require.NoError(t, ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second)))
	require.Eventually(t, func() bool { return len(l.Channels()) == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, rec.Closed())
}

// TestHandler_MaxConnections 测试连接数上限
func TestHandler_MaxConnections(t *testing.T) {
	l, url := startHandler(t, Options{Options: transport.Options{
		Pipelines:      transporttest.Pipelines(t, transporttest.EchoProfile()),
		MaxConnections: 1,
	}})
	dial(t, url)
	require.Eventually(t, func() bool { return len(l.Channels()) == 1 }, time.Second, 10*time.Millisecond)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, 503, resp.StatusCode)
}

// TestHandler_NoSocket 测试只作为 Handler 时不能 Serve
func TestHandler_NoSocket(t *testing.T) {
	l, _ := startHandler(t, Options{Options: transport.Options{
		Pipelines: transporttest.Pipelines(t, transporttest.EchoProfile()),
	}})
	assert.Nil(t, l.Addr())
	assert.ErrorIs(t, l.Serve(context.Background()), ErrNoSocket)
}

// TestListen_Client 测试独立服务器与客户端收发文本消息
func TestListen_Client(t *testing.T) {
	l, err := Listen(context.Background(), Options{
		Options: transport.Options{
			Address:   "127.0.0.1",
			Pipelines: transporttest.Pipelines(t, textProfile(nil)),
		},
		Path: "/ws",
	})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Serve(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	got := make(chan string, 1)
	clientProfile := &middleware.ChannelProfile{
		Name: "collect",
		Handlers: []middleware.Stage{
			middleware.HandlerFunc("collect", func(_ pkgif.PipelineContext, m *types.Message) error {
				got <- m.Text()
				return nil
			}),
		},
	}
	client, err := NewClient(Options{
		Options: transport.Options{Pipelines: transporttest.Pipelines(t, clientProfile)},
		URL:     "ws://" + l.Addr().String() + "/ws",
	})
	require.NoError(t, err)

	ch, err := client.Connect(context.Background())
	require.NoError(t, err)
	defer ch.Close(context.Background())

	require.NoError(t, ch.Write(context.Background(), "ping"))
	select {
	case s := <-got:
		assert.Equal(t, "ping!", s)
	case <-time.After(2 * time.Second):
		t.Fatal("no reply received")
	}
}

// TestConn_SendMessageClose 测试发送关闭消息后双方通道关闭
func TestConn_SendMessageClose(t *testing.T) {
	l, url := startHandler(t, Options{Options: transport.Options{
		Pipelines: transporttest.Pipelines(t, transporttest.EchoProfile()),
	}})
	ws := dial(t, url)
	require.Eventually(t, func() bool { return len(l.Channels()) == 1 }, time.Second, 10*time.Millisecond)

	ch := l.Channels()[0]
	require.NoError(t, ch.Write(context.Background(), &types.Message{
		Type:         types.MessageClose,
		Payload:      buffer.NewReadable([]byte("done"), buffer.BigEndian),
		EndOfMessage: true,
	}))

	_, _, err := ws.ReadMessage()
	var ce *websocket.CloseError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, websocket.CloseNormalClosure, ce.Code)
	assert.Equal(t, "done", ce.Text)
}
