// Package reconnect 实现客户端的连接/监控/重连状态机
//
//	Disconnected → Connecting → Connected → Disconnected → …
//
// 连接失败后按指数退避等待：第 k 次连续失败（从 0 开始计数）后等待
// min(Max, Base·2^k)，即第一次失败后等待 Base。连接成功后以固定周期
// 检查通道是否关闭，检测到关闭后等待 Base 再重新连接。
// 取消 context 会立即终止循环，不再重试。
//
// TCP、UDP 和 WebSocket 客户端共用这一状态机，只需实现 Connector。
package reconnect
