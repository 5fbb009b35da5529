//go:build unix

package idle

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// SocketAlive 以 MSG_PEEK|MSG_DONTWAIT 探测流式套接字
//
// 读到 0 字节（对端有序关闭）或出现除 EAGAIN 之外的错误时返回 false。
// 探测不消费任何数据。使用 Control 而不是 Read，接收循环阻塞在读取上时也不会等待。
func SocketAlive(conn syscall.Conn) bool {
	raw, err := conn.SyscallConn()
	if err != nil {
		return false
	}

	alive := true
	cerr := raw.Control(func(fd uintptr) {
		var b [1]byte
		n, _, rerr := unix.Recvfrom(int(fd), b[:], unix.MSG_PEEK|unix.MSG_DONTWAIT)
		switch {
		case rerr == nil:
			alive = n > 0
		case errors.Is(rerr, unix.EAGAIN), errors.Is(rerr, unix.EWOULDBLOCK), errors.Is(rerr, unix.EINTR):
			alive = true
		default:
			alive = false
		}
	})
	if cerr != nil {
		return false
	}
	return alive
}
