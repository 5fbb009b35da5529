//go:build !unix

package idle

import "syscall"

// SocketAlive 非 unix 平台不支持探测，始终返回 true
func SocketAlive(syscall.Conn) bool {
	return true
}
