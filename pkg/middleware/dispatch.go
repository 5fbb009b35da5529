package middleware

import (
	"github.com/dep2p/go-channels/pkg/buffer"
	"github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/types"
)

// resolver 把到达的值解析为规则和待调用的参数列表
type resolver[T any] func(v any) (Rule, []T)

// resolveSingle 用于期望单值 T 的阶段
func resolveSingle[T any](v any) (Rule, []T) {
	if t, ok := v.(T); ok {
		return RuleIdentity, []T{t}
	}
	if ts, ok := v.([]T); ok {
		return RuleSpread, ts
	}
	return RuleReject, nil
}

// resolveSequence 用于期望 []E 的阶段
func resolveSequence[E any](v any) (Rule, [][]E) {
	if es, ok := v.([]E); ok {
		return RuleIdentity, [][]E{es}
	}
	if e, ok := v.(E); ok {
		return RuleWrap, [][]E{{e}}
	}
	return RuleReject, nil
}

func accepts[T any](resolve resolver[T], sample any) bool {
	rule, _ := resolve(sample)
	return rule != RuleReject
}

// Resolve 返回值 v 到达期望类型 T 的阶段时采用的规则（不执行阶段）
func Resolve[T any](v any) Rule {
	if v == nil {
		return RuleSkip
	}
	rule, _ := resolveSingle[T](v)
	if rule != RuleReject {
		return rule
	}
	switch x := v.(type) {
	case []byte:
		if accepts(resolveSingle[T], (*buffer.Buffer)(nil)) {
			return RuleConvert
		}
	case *buffer.Buffer:
		if accepts(resolveSingle[T], []byte(nil)) {
			return RuleConvert
		}
	case *types.Message:
		if x == nil || x.Payload == nil {
			break
		}
		if accepts(resolveSingle[T], (*buffer.Buffer)(nil)) || accepts(resolveSingle[T], []byte(nil)) {
			return RuleConvert
		}
		if x.Type == types.MessageText && accepts(resolveSingle[T], "") {
			return RuleConvert
		}
	}
	return RuleReject
}

// drain 取出缓冲区全部剩余字节
func drain(b *buffer.Buffer) []byte {
	if b.IsWritable() {
		return b.ToArray()
	}
	p, err := b.ReadBytes(b.ReadableBytes())
	if err != nil {
		return nil
	}
	return p
}

func endiannessOf(ctx interfaces.PipelineContext) buffer.Endianness {
	if ctx == nil {
		return buffer.BigEndian
	}
	if ch := ctx.Channel(); ch != nil {
		return ch.Endianness()
	}
	return buffer.BigEndian
}
