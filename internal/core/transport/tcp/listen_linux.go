//go:build linux

package tcp

import (
	"context"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// listen 创建 TCP 监听；backlog 大于 0 时直接通过套接字调用设置积压队列
func listen(ctx context.Context, address string, backlog int) (net.Listener, error) {
	if backlog <= 0 {
		var lc net.ListenConfig
		return lc.Listen(ctx, "tcp", address)
	}

	addr, err := net.ResolveTCPAddr("tcp", address)
	if err != nil {
		return nil, err
	}
	domain, sa := sockaddr(addr)

	fd, err := unix.Socket(domain, unix.SOCK_STREAM|unix.SOCK_CLOEXEC|unix.SOCK_NONBLOCK, unix.IPPROTO_TCP)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return nil, os.NewSyscallError("setsockopt", err)
	}
	if err := unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, os.NewSyscallError("bind", err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		_ = unix.Close(fd)
		return nil, os.NewSyscallError("listen", err)
	}

	// FileListener 复制描述符，原文件随即关闭
	f := os.NewFile(uintptr(fd), "tcp:"+address)
	defer f.Close()
	return net.FileListener(f)
}

func sockaddr(addr *net.TCPAddr) (int, unix.Sockaddr) {
	ip4 := addr.IP.To4()
	if addr.IP == nil || ip4 != nil {
		sa := &unix.SockaddrInet4{Port: addr.Port}
		if ip4 != nil {
			copy(sa.Addr[:], ip4)
		}
		return unix.AF_INET, sa
	}
	sa := &unix.SockaddrInet6{Port: addr.Port}
	copy(sa.Addr[:], addr.IP.To16())
	return unix.AF_INET6, sa
}
