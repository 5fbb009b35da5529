// Package interfaces 定义 go-channels 的公共接口
//
// 接口按职责拆分到独立文件：
//
//   - channel.go   - Channel、Poller
//   - transport.go - Transport、MessageTransport
//   - service.go   - ChannelService、ServiceFactory
//   - listener.go  - ChannelEventListener
//   - pipeline.go  - PipelineContext、AdapterContext、OutputSink、Adapter、Handler
//
// 实现位于 internal/core 下对应的模块，本包只依赖 pkg/types 和 pkg/buffer。
package interfaces
