package middleware

import "errors"

var (
	// ErrStagePanic 阶段执行时发生 panic
	ErrStagePanic = errors.New("pipeline stage panicked")

	// ErrInvalidProfile 通道配置无效
	ErrInvalidProfile = errors.New("invalid channel profile")
)
