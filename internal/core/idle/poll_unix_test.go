//go:build unix

package idle

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocketAlive(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer client.Close()

	server := <-accepted
	defer server.Close()

	assert.True(t, SocketAlive(server.(*net.TCPConn)))

	// 探测不消费数据
	_, err = client.Write([]byte("x"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return SocketAlive(server.(*net.TCPConn)) }, time.Second, 10*time.Millisecond)
	buf := make([]byte, 1)
	_, err = server.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, byte('x'), buf[0])

	require.NoError(t, client.Close())
	require.Eventually(t, func() bool { return !SocketAlive(server.(*net.TCPConn)) }, time.Second, 10*time.Millisecond)
}

// TestSocketAlive_ReadPending 测试另一个 goroutine 阻塞在读取上时探测立即返回
func TestSocketAlive_ReadPending(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer client.Close()

	server := <-accepted
	defer server.Close()

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		buf := make([]byte, 1)
		_, _ = server.Read(buf)
	}()
	// 等待读取进入阻塞
	time.Sleep(50 * time.Millisecond)

	result := make(chan bool, 1)
	go func() { result <- SocketAlive(server.(*net.TCPConn)) }()
	select {
	case alive := <-result:
		assert.True(t, alive)
	case <-time.After(time.Second):
		t.Fatal("SocketAlive blocked while a read is pending")
	}

	require.NoError(t, client.Close())
	<-readDone
	require.Eventually(t, func() bool { return !SocketAlive(server.(*net.TCPConn)) }, time.Second, 10*time.Millisecond)
}
