// Package idle 实现通道空闲检测服务
//
// 服务按通道附加，每个通道一个实例。模式：
//
//   - None：不检测
//   - Auto：每 5 秒探测一次套接字，探测失败即关闭；
//     配置了超时时同时按 Both 规则检查
//   - Read：以最后接收时间为准
//   - Write：以最后发送时间为准
//   - Both：以收发中较近的一次为准（空闲时长取两者的较小值）
//
// 尚未发生收发时以通道创建时间为起点。非 Auto 模式的定时器周期为
// timeout/2，空闲时长严格超过 timeout 时关闭通道并记录警告。
// 零超时只在 Auto 模式下合法。
package idle
