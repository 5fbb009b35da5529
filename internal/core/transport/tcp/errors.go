package tcp

import "errors"

var (
	// ErrNotTCPConn 连接不是 TCP 连接
	ErrNotTCPConn = errors.New("tcp: not a TCP connection")
)
