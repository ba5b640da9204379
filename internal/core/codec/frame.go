package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/multiformats/go-varint"

	"github.com/dep2p/go-mpcrpc/pkg/types"
)

// EncodeFrame 编码数据包并加上长度前缀
//
// 返回的帧是一块连续内存，出站路径一次 Write 即可写出。
func EncodeFrame(packet *types.DataPacket) ([]byte, error) {
	msg, err := Encode(packet)
	if err != nil {
		return nil, err
	}
	return AppendFrame(nil, msg), nil
}

// AppendFrame 在 dst 后追加 [uvarint 长度][msg]
func AppendFrame(dst, msg []byte) []byte {
	size := uint64(len(msg))
	if dst == nil {
		dst = make([]byte, 0, varint.UvarintSize(size)+len(msg))
	}
	dst = append(dst, varint.ToUvarint(size)...)
	return append(dst, msg...)
}

// initialFrameBuffer 读帧时的初始缓冲上限，更大的帧随数据到达再扩容
const initialFrameBuffer = 64 << 10

// ReadFrame 从 r 读取一帧，返回消息字节
//
// maxSize 限制单帧大小。缓冲区随实际到达的字节增长，
// 只有长度前缀而没有数据的连接不会占住 maxSize 大小的内存。
// 长度前缀之前遇到 EOF 时原样返回 io.EOF，便于调用方区分正常关闭。
func ReadFrame(r *bufio.Reader, maxSize int) ([]byte, error) {
	size, err := varint.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	if size > uint64(maxSize) {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrFrameTooLarge, size, maxSize)
	}
	buf := bytes.NewBuffer(make([]byte, 0, min(size, initialFrameBuffer)))
	n, err := buf.ReadFrom(io.LimitReader(r, int64(size)))
	if err != nil {
		return nil, err
	}
	if uint64(n) < size {
		return nil, io.ErrUnexpectedEOF
	}
	return buf.Bytes(), nil
}

// DecodeFrame 解码一块完整的帧
//
// 帧必须恰好包含一个长度前缀与对应长度的消息。
func DecodeFrame(frame []byte) (*types.DataPacket, error) {
	size, n, err := varint.FromUvarint(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: frame prefix: %v", ErrMalformedMessage, err)
	}
	if size != uint64(len(frame)-n) {
		return nil, fmt.Errorf("%w: frame declares %d bytes, carries %d", ErrMalformedMessage, size, len(frame)-n)
	}
	return Decode(frame[n:])
}
