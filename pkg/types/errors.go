package types

import "errors"

// ============================================================================
//                              参与方相关错误
// ============================================================================

var (
	// ErrInvalidParty 无效的参与方
	ErrInvalidParty = errors.New("invalid party")

	// ErrDuplicateParty 参与方 ID 重复
	ErrDuplicateParty = errors.New("duplicate party id")

	// ErrTooFewParties 参与方数量不足
	ErrTooFewParties = errors.New("party set needs at least two parties")

	// ErrOwnPartyMissing 参与方集合中不包含自身
	ErrOwnPartyMissing = errors.New("own party not in party set")
)

// ============================================================================
//                              数据包相关错误
// ============================================================================

var (
	// ErrInvalidPayload 载荷与类型不匹配
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrUnequalSize EQUAL_SIZE 载荷元素长度不一致
	ErrUnequalSize = errors.New("equal-size payload has elements of different length")

	// ErrUnknownPayloadType 未知的载荷类型
	ErrUnknownPayloadType = errors.New("unknown payload type")
)
