// Package pipeline 实现管道执行器
//
// 输入管道：适配器阶段 → 处理器阶段 → 输出槽写回通道。
// 输出管道：适配器阶段 → 传输终端，不使用输出槽。
//
// 每次 Execute 都是独立的执行（Running → done / Interrupted），
// 转发列表和输出槽只存在于单次执行内，所以同一个 Pipeline
// 可以被使用同一配置的多个通道共享。
//
// 中断策略：
//   - 某个适配器之前的转发列表为空：中断（ErrNoData），跳过其余阶段和输出写回
//   - 任一阶段返回错误或 panic：中断，跳过其余阶段和输出写回
//   - 处理器阶段没有输入或没有注册处理器：记录日志后继续，仍然写回输出
//   - 处理器失败时不写回输出
package pipeline
