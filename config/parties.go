package config

import "github.com/dep2p/go-mpcrpc/pkg/types"

// PartyConfig 参与方配置
type PartyConfig struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (p PartyConfig) toParty() types.Party {
	return types.Party{ID: p.ID, Name: p.Name, Host: p.Host, Port: p.Port}
}

// PartySet 以 ownID 为本方构造参与方集合
func (c *Config) PartySet(ownID int32) (*types.PartySet, error) {
	parties := make([]types.Party, 0, len(c.Parties))
	for _, p := range c.Parties {
		parties = append(parties, p.toParty())
	}
	return types.NewPartySet(ownID, parties...)
}
