package types

import (
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
//                              Party 参与方
// ============================================================================

// Party 多方计算中的一个参与方
//
// 创建后不可变，生命周期与进程一致。
type Party struct {
	// ID 参与方编号，非负且在集合内唯一
	ID int32

	// Name 参与方名称，非空白
	Name string

	// Host 主机名或 IP
	Host string

	// Port 监听端口
	Port int
}

// Validate 校验参与方字段
func (p Party) Validate() error {
	if p.ID < 0 {
		return fmt.Errorf("%w: id = %d, expected >= 0", ErrInvalidParty, p.ID)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: party %d has blank name", ErrInvalidParty, p.ID)
	}
	if strings.TrimSpace(p.Host) == "" {
		return fmt.Errorf("%w: party %d has blank host", ErrInvalidParty, p.ID)
	}
	if p.Port <= 0 || p.Port > 65535 {
		return fmt.Errorf("%w: party %d port = %d, expected 1..65535", ErrInvalidParty, p.ID, p.Port)
	}
	return nil
}

// Addr 返回 host:port 形式的地址
func (p Party) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// String 返回便于日志显示的描述
func (p Party) String() string {
	return fmt.Sprintf("%s(%d)@%s", p.Name, p.ID, p.Addr())
}

// ============================================================================
//                              PartySet 参与方集合
// ============================================================================

// PartySet 固定的参与方集合
//
// 构造后成员不再变化；必须包含自身以及至少一个其他参与方。
type PartySet struct {
	own     Party
	parties map[int32]Party
	ordered []Party
}

// NewPartySet 创建参与方集合
//
// ownID 为本方编号，parties 中必须包含该编号。
func NewPartySet(ownID int32, parties ...Party) (*PartySet, error) {
	if len(parties) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewParties, len(parties))
	}

	set := &PartySet{
		parties: make(map[int32]Party, len(parties)),
		ordered: make([]Party, 0, len(parties)),
	}
	for _, p := range parties {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := set.parties[p.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateParty, p.ID)
		}
		set.parties[p.ID] = p
		set.ordered = append(set.ordered, p)
	}

	own, ok := set.parties[ownID]
	if !ok {
		return nil, fmt.Errorf("%w: id = %d", ErrOwnPartyMissing, ownID)
	}
	set.own = own

	sort.Slice(set.ordered, func(i, j int) bool { return set.ordered[i].ID < set.ordered[j].ID })
	return set, nil
}

// Own 返回本方
func (s *PartySet) Own() Party {
	return s.own
}

// Party 按编号查找参与方
func (s *PartySet) Party(id int32) (Party, bool) {
	p, ok := s.parties[id]
	return p, ok
}

// Contains 判断编号是否属于集合
func (s *PartySet) Contains(id int32) bool {
	_, ok := s.parties[id]
	return ok
}

// Size 返回参与方数量
func (s *PartySet) Size() int {
	return len(s.ordered)
}

// Parties 返回按编号升序排列的全部参与方
func (s *PartySet) Parties() []Party {
	out := make([]Party, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Others 返回按编号升序排列的其他参与方（不含自身）
func (s *PartySet) Others() []Party {
	out := make([]Party, 0, len(s.ordered)-1)
	for _, p := range s.ordered {
		if p.ID != s.own.ID {
			out = append(out, p)
		}
	}
	return out
}

// WithOwn 返回以 ownID 为本方的同成员集合
//
// 多方本地模拟时，每个参与方共享同一组成员。
func (s *PartySet) WithOwn(ownID int32) (*PartySet, error) {
	return NewPartySet(ownID, s.ordered...)
}
