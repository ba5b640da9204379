package tcp

import "errors"

var (
	// ErrListenerClosed 监听器已关闭
	ErrListenerClosed = errors.New("tcp: listener closed")

	// ErrListenerStarted 监听器已启动
	ErrListenerStarted = errors.New("tcp: listener already started")

	// ErrSendFailed 帧写出失败
	ErrSendFailed = errors.New("tcp: send failed")
)
