package types

// ============================================================================
//                              自定义事件名称
// ============================================================================

// 通过 ChannelEventListener.CustomEvent 广播的事件名称
const (
	// EventIdleTimeout 通道因空闲超时被关闭，data 为 time.Duration
	EventIdleTimeout = "idle.timeout"

	// EventPollFailed 套接字探测失败导致通道关闭
	EventPollFailed = "idle.poll_failed"

	// EventPipelineInterrupted 管道执行被中断，data 为 error
	EventPipelineInterrupted = "pipeline.interrupted"

	// EventReconnectAttempt 客户端重连失败一次，data 为下一次等待时长
	EventReconnectAttempt = "reconnect.attempt"

	// EventPeerEvicted UDP 对端因容量限制被淘汰
	EventPeerEvicted = "udp.peer_evicted"

	// EventInboxOverflow UDP 对端收件箱已满，数据报被丢弃
	EventInboxOverflow = "udp.inbox_overflow"
)
