// Package metrics 把通道事件导出为 Prometheus 指标
//
// Collector 实现 ChannelEventListener，注册到事件注册表后统计：
//
//   - <ns>_created_total / <ns>_closed_total：按传输类型计数
//   - <ns>_active：当前活跃通道数
//   - <ns>_bytes_received_total / <ns>_bytes_sent_total：收发字节数
//   - <ns>_events_total：自定义事件（idle.timeout、peer.evicted 等）按名称计数
//   - <ns>_lifetime_seconds：通道存活时长分布
//
// <ns> 为配置的命名空间，默认 "channels"。
//
// Collector 本身是 prometheus.Collector，可以注册到任意 Registerer。
package metrics
