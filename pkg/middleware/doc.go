// Package middleware 实现适配器和处理器共用的类型分派逻辑
//
// 每个阶段（Stage）声明期望的负载类型 T。值到达阶段时按固定优先级
// 选择一条规则：
//
//  1. nil 值跳过（Skip），阶段不被调用
//  2. 值的类型就是 T，直接调用（Identity）
//  3. 阶段期望单值而值是 []T，按顺序逐个调用，前一个完成后才调用下一个（Spread）
//  4. 阶段期望 []E 而值是 E，包装成长度为 1 的切片调用一次（Wrap）
//  5. 内置转换，转换后从第 2 步重新匹配（Convert）：[]byte 与 *buffer.Buffer 互转；
//     *types.Message 依次尝试负载缓冲区、负载字节，文本消息最后尝试 string
//  6. 都不匹配时拒绝（Reject）：适配器原样转发，处理器丢弃
//
// 阶段能否接受转换结果在构造时确定，运行时只做类型断言。
//
// 构造函数：
//
//	middleware.Adapter[T](impl)            // interfaces.Adapter[T]
//	middleware.AdapterFunc[T](name, fn)
//	middleware.SequenceAdapter[E](impl)    // interfaces.Adapter[[]E]，支持 Wrap
//	middleware.Handler[T](impl)
//	middleware.HandlerFunc[T](name, fn)
//	middleware.SequenceHandler[E](impl)
package middleware
