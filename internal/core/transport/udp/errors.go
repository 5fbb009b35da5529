package udp

import "errors"

var (
	// ErrPeerRejected 新远端被速率限制拒绝
	ErrPeerRejected = errors.New("udp: new peer rejected by accept rate")
)
