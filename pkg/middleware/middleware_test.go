package middleware

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-channels/pkg/buffer"
	"github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/types"
)

// ============================================================================
//                              测试辅助
// ============================================================================

type fakeChannel struct {
	order buffer.Endianness
}

func (c *fakeChannel) ID() types.ChannelID { return types.EmptyChannelID }
func (c *fakeChannel) Transport() types.TransportKind { return types.TransportTCP }
func (c *fakeChannel) CreatedAt() time.Time { return time.Time{} }
func (c *fakeChannel) LastReceivedAt() time.Time { return time.Time{} }
func (c *fakeChannel) LastSentAt() time.Time { return time.Time{} }
func (c *fakeChannel) Metadata() *types.Metadata { return types.NewMetadata() }
func (c *fakeChannel) Endianness() buffer.Endianness { return c.order }
func (c *fakeChannel) LocalAddr() net.Addr { return nil }
func (c *fakeChannel) RemoteAddr() net.Addr { return nil }
func (c *fakeChannel) Write(context.Context, any) error { return nil }
func (c *fakeChannel) Close(context.Context) error { return nil }
func (c *fakeChannel) IsClosed() bool { return false }
func (c *fakeChannel) Done() <-chan struct{} { return nil }

type fakeContext struct {
	ch        interfaces.Channel
	forwarded []any
}

func newFakeContext() *fakeContext {
	return &fakeContext{ch: &fakeChannel{order: buffer.LittleEndian}}
}

func (c *fakeContext) Context() context.Context { return context.Background() }
func (c *fakeContext) Channel() interfaces.Channel { return c.ch }
func (c *fakeContext) Output() interfaces.OutputSink { return nil }
func (c *fakeContext) Notify(string, any) {}
func (c *fakeContext) Forward(v any) { c.forwarded = append(c.forwarded, v) }

type closableAdapter struct {
	closed bool
}

func (a *closableAdapter) Execute(interfaces.AdapterContext, string) error { return nil }
func (a *closableAdapter) Close() error {
	a.closed = true
	return nil
}

// ============================================================================
//                              分派规则
// ============================================================================

func TestInvoke_Identity(t *testing.T) {
	var got []string
	s := HandlerFunc("h", func(_ interfaces.PipelineContext, v string) error {
		got = append(got, v)
		return nil
	})

	rule, err := s.Invoke(newFakeContext(), "a")
	require.NoError(t, err)
	assert.Equal(t, RuleIdentity, rule)
	assert.Equal(t, []string{"a"}, got)
}

func TestInvoke_SkipNil(t *testing.T) {
	called := false
	s := AdapterFunc("a", func(interfaces.AdapterContext, string) error {
		called = true
		return nil
	})
	ctx := newFakeContext()

	rule, err := s.Invoke(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, RuleSkip, rule)
	assert.False(t, called)
	assert.Empty(t, ctx.forwarded)
}

func TestInvoke_SpreadInOrder(t *testing.T) {
	var got []string
	s := HandlerFunc("h", func(_ interfaces.PipelineContext, v string) error {
		got = append(got, v)
		return nil
	})

	rule, err := s.Invoke(newFakeContext(), []string{"x", "y", "z"})
	require.NoError(t, err)
	assert.Equal(t, RuleSpread, rule)
	assert.Equal(t, []string{"x", "y", "z"}, got)
}

func TestInvoke_SpreadStopsAtError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	s := HandlerFunc("h", func(_ interfaces.PipelineContext, v int) error {
		calls++
		if v == 2 {
			return boom
		}
		return nil
	})

	_, err := s.Invoke(newFakeContext(), []int{1, 2, 3})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestInvoke_Wrap(t *testing.T) {
	var got [][]string
	s := SequenceHandlerFunc("h", func(_ interfaces.PipelineContext, v []string) error {
		got = append(got, v)
		return nil
	})

	rule, err := s.Invoke(newFakeContext(), "only")
	require.NoError(t, err)
	assert.Equal(t, RuleWrap, rule)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"only"}, got[0])

	rule, err = s.Invoke(newFakeContext(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, RuleIdentity, rule)
	assert.Len(t, got, 2)
}

func TestInvoke_BufferToBytes(t *testing.T) {
	var got []byte
	s := HandlerFunc("h", func(_ interfaces.PipelineContext, v []byte) error {
		got = v
		return nil
	})

	b := buffer.NewReadable([]byte("hello"), buffer.BigEndian)
	require.NoError(t, b.SkipBytes(1))

	rule, err := s.Invoke(newFakeContext(), b)
	require.NoError(t, err)
	assert.Equal(t, RuleConvert, rule)
	assert.Equal(t, []byte("ello"), got)
	assert.Equal(t, 0, b.ReadableBytes())
}

func TestInvoke_BytesToBuffer(t *testing.T) {
	var got *buffer.Buffer
	s := HandlerFunc("h", func(_ interfaces.PipelineContext, v *buffer.Buffer) error {
		got = v
		return nil
	})

	rule, err := s.Invoke(newFakeContext(), []byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, RuleConvert, rule)
	require.NotNil(t, got)
	assert.True(t, got.IsReadable())
	assert.Equal(t, buffer.LittleEndian, got.Endianness())
	assert.Equal(t, []byte{1, 2}, got.ToArray())
}

// TestInvoke_MessagePayload 测试完整消息按阶段期望的类型取出负载
func TestInvoke_MessagePayload(t *testing.T) {
	var gotBuf *buffer.Buffer
	bufStage := AdapterFunc("buf", func(_ interfaces.AdapterContext, b *buffer.Buffer) error {
		gotBuf = b
		return nil
	})
	msg := types.NewTextMessage("hi")
	rule, err := bufStage.Invoke(newFakeContext(), msg)
	require.NoError(t, err)
	assert.Equal(t, RuleConvert, rule)
	assert.Same(t, msg.Payload, gotBuf)

	var gotBytes []byte
	bytesStage := HandlerFunc("bytes", func(_ interfaces.PipelineContext, p []byte) error {
		gotBytes = p
		return nil
	})
	rule, err = bytesStage.Invoke(newFakeContext(), types.NewBinaryMessage([]byte{1, 2}, buffer.BigEndian))
	require.NoError(t, err)
	assert.Equal(t, RuleConvert, rule)
	assert.Equal(t, []byte{1, 2}, gotBytes)

	var gotText string
	textStage := HandlerFunc("text", func(_ interfaces.PipelineContext, s string) error {
		gotText = s
		return nil
	})
	rule, err = textStage.Invoke(newFakeContext(), types.NewTextMessage("hello"))
	require.NoError(t, err)
	assert.Equal(t, RuleConvert, rule)
	assert.Equal(t, "hello", gotText)

	// 二进制消息不转换为字符串
	ctx := newFakeContext()
	rule, err = textStage.Invoke(ctx, types.NewBinaryMessage([]byte("x"), buffer.BigEndian))
	require.NoError(t, err)
	assert.Equal(t, RuleReject, rule)
}

func TestInvoke_RejectDoesNotDrainBuffer(t *testing.T) {
	s := AdapterFunc("a", func(interfaces.AdapterContext, string) error { return nil })
	ctx := newFakeContext()
	b := buffer.NewReadable([]byte("abc"), buffer.BigEndian)

	rule, err := s.Invoke(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, RuleReject, rule)
	assert.Equal(t, 3, b.ReadableBytes())
	require.Len(t, ctx.forwarded, 1)
	assert.Same(t, b, ctx.forwarded[0])
}

func TestInvoke_HandlerRejectDrops(t *testing.T) {
	s := HandlerFunc("h", func(interfaces.PipelineContext, int) error { return nil })
	ctx := newFakeContext()

	rule, err := s.Invoke(ctx, "not an int")
	require.NoError(t, err)
	assert.Equal(t, RuleReject, rule)
	assert.Empty(t, ctx.forwarded)
}

func TestInvoke_PanicRecovered(t *testing.T) {
	s := HandlerFunc("explode", func(interfaces.PipelineContext, string) error {
		panic("bad input")
	})

	_, err := s.Invoke(newFakeContext(), "x")
	require.ErrorIs(t, err, ErrStagePanic)
	assert.Contains(t, err.Error(), "explode")
}

func TestResolve(t *testing.T) {
	assert.Equal(t, RuleSkip, Resolve[string](nil))
	assert.Equal(t, RuleIdentity, Resolve[string]("a"))
	assert.Equal(t, RuleSpread, Resolve[string]([]string{"a"}))
	assert.Equal(t, RuleConvert, Resolve[[]byte](buffer.NewReadable(nil, buffer.BigEndian)))
	assert.Equal(t, RuleConvert, Resolve[*buffer.Buffer]([]byte{1}))
	assert.Equal(t, RuleReject, Resolve[int]("a"))
	assert.Equal(t, RuleConvert, Resolve[*buffer.Buffer](types.NewTextMessage("a")))
	assert.Equal(t, RuleConvert, Resolve[string](types.NewTextMessage("a")))
	assert.Equal(t, RuleReject, Resolve[string](types.NewBinaryMessage(nil, buffer.BigEndian)))
	assert.Equal(t, "spread", RuleSpread.String())
}

func TestStage_Close(t *testing.T) {
	impl := &closableAdapter{}
	s := Adapter[string](impl)
	require.NoError(t, s.Close())
	assert.True(t, impl.closed)
	assert.Equal(t, KindAdapter, s.Kind())
	assert.Contains(t, s.Name(), "closableAdapter")

	fn := HandlerFunc("f", func(interfaces.PipelineContext, string) error { return nil })
	assert.NoError(t, fn.Close())
	assert.Nil(t, AdapterFunc[string]("nil", nil))
}

// ============================================================================
//                              ChannelProfile
// ============================================================================

func TestProfile_Validate(t *testing.T) {
	a := AdapterFunc("a", func(interfaces.AdapterContext, []byte) error { return nil })
	h := HandlerFunc("h", func(interfaces.PipelineContext, []byte) error { return nil })

	ok := &ChannelProfile{Name: "echo", InputAdapters: []Stage{a}, Handlers: []Stage{h}}
	assert.NoError(t, ok.Validate())

	bad := &ChannelProfile{Name: "echo", Handlers: []Stage{a}}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidProfile)

	noName := &ChannelProfile{}
	assert.ErrorIs(t, noName.Validate(), ErrInvalidProfile)

	nilStage := &ChannelProfile{Name: "x", OutputAdapters: []Stage{nil}}
	assert.ErrorIs(t, nilStage.Validate(), ErrInvalidProfile)
}

func TestProfile_NewServices(t *testing.T) {
	boom := errors.New("factory failed")
	p := &ChannelProfile{
		Name: "svc",
		Services: []interfaces.ServiceFactory{
			func() (interfaces.ChannelService, error) { return nil, nil },
			func() (interfaces.ChannelService, error) { return nil, boom },
		},
	}
	services, err := p.NewServices()
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, services)
}
