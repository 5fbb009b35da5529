package middleware

// Rule 分派规则
type Rule int

const (
	// RuleSkip 值为 nil，阶段不被调用
	RuleSkip Rule = iota
	// RuleIdentity 类型匹配，直接调用
	RuleIdentity
	// RuleSpread 逐个元素调用
	RuleSpread
	// RuleWrap 包装为单元素切片调用
	RuleWrap
	// RuleConvert 经字节/缓冲区转换后调用
	RuleConvert
	// RuleReject 不适用于该阶段
	RuleReject
)

// String 返回规则名称
func (r Rule) String() string {
	switch r {
	case RuleSkip:
		return "skip"
	case RuleIdentity:
		return "identity"
	case RuleSpread:
		return "spread"
	case RuleWrap:
		return "wrap"
	case RuleConvert:
		return "convert"
	case RuleReject:
		return "reject"
	default:
		return "unknown"
	}
}

// Kind 阶段类别
type Kind int

const (
	// KindAdapter 适配器（输入或输出管道）
	KindAdapter Kind = iota
	// KindHandler 处理器（输入管道末端或输出管道的传输终端）
	KindHandler
)

// String 返回类别名称
func (k Kind) String() string {
	if k == KindHandler {
		return "handler"
	}
	return "adapter"
}
