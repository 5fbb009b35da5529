package interfaces

// ChannelEventListener 通道事件监听器
//
// 所有回调都是同步、即发即忘的通知；
// 监听器中的 panic 会被注册表隔离，不会影响通道逻辑。
type ChannelEventListener interface {
	// ChannelCreated 通道初始化完成
	ChannelCreated(ch Channel)

	// ChannelClosed 通道关闭
	ChannelClosed(ch Channel)

	// DataReceived 收到原始数据
	DataReceived(ch Channel, data []byte)

	// DataSent 发送了 n 个字节
	DataSent(ch Channel, n int)

	// CustomEvent 自定义事件
	CustomEvent(ch Channel, name string, data any)
}

// NoopEventListener 空实现，可嵌入以只覆盖需要的回调
type NoopEventListener struct{}

// ChannelCreated 空实现
func (NoopEventListener) ChannelCreated(Channel) {}

// ChannelClosed 空实现
func (NoopEventListener) ChannelClosed(Channel) {}

// DataReceived 空实现
func (NoopEventListener) DataReceived(Channel, []byte) {}

// DataSent 空实现
func (NoopEventListener) DataSent(Channel, int) {}

// CustomEvent 空实现
func (NoopEventListener) CustomEvent(Channel, string, any) {}
