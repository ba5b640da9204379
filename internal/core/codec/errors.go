package codec

import "errors"

var (
	// ErrMalformedMessage 消息格式错误
	ErrMalformedMessage = errors.New("codec: malformed message")

	// ErrMalformedEqualSize EQUAL_SIZE 载荷格式错误
	ErrMalformedEqualSize = errors.New("codec: malformed equal-size payload")

	// ErrFrameTooLarge 帧超过上限
	ErrFrameTooLarge = errors.New("codec: frame too large")
)
