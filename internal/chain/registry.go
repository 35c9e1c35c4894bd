package chain

import (
	"errors"
	"strings"
)

// ErrNetworkNotFound is returned when a network is not in the registry.
var ErrNetworkNotFound = errors.New("network not found")

// Network holds the connection metadata for a deployment target.
type Network struct {
	Name     string   `json:"name"`
	ChainID  int64    `json:"chain_id"`
	RPC      string   `json:"rpc"`
	Fallback []string `json:"fallback,omitempty"` // alternative public endpoints
	Explorer string   `json:"explorer,omitempty"`
	Local    bool     `json:"local,omitempty"` // development node (Hardhat, Anvil)
}

// RPCs returns the primary endpoint followed by the fallbacks.
func (n *Network) RPCs() []string {
	return append([]string{n.RPC}, n.Fallback...)
}

// Registry is the network registry.
type Registry struct {
	networks []Network
	byName   map[string]*Network
	byID     map[int64]*Network
}

// NewRegistry creates and returns the registry of known networks.
func NewRegistry() *Registry {
	networks := allNetworks()
	r := &Registry{
		networks: networks,
		byName:   make(map[string]*Network, len(networks)+1),
		byID:     make(map[int64]*Network, len(networks)),
	}
	for i := range r.networks {
		n := &r.networks[i]
		r.byName[n.Name] = n
		if _, seen := r.byID[n.ChainID]; !seen {
			r.byID[n.ChainID] = n
		}
	}
	// Hardhat's in-process network name maps onto its JSON-RPC node.
	r.byName["hardhat"] = r.byName["localhost"]
	return r
}

// All returns every network in the registry.
func (r *Registry) All() []Network {
	return r.networks
}

// GetByName finds a network by its slug name (e.g. "sepolia", "localhost").
func (r *Registry) GetByName(name string) (*Network, error) {
	n, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ErrNetworkNotFound
	}
	return n, nil
}

// GetByChainID finds a network by its numeric chain ID.
func (r *Registry) GetByChainID(id int64) (*Network, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, ErrNetworkNotFound
	}
	return n, nil
}

// --- network data ---

func allNetworks() []Network {
	return []Network{
		{Name: "localhost", ChainID: 31337, RPC: "http://127.0.0.1:8545", Local: true},
		{Name: "ethereum", ChainID: 1, RPC: "https://ethereum-rpc.publicnode.com",
			Fallback: []string{"https://eth.llamarpc.com", "https://rpc.ankr.com/eth"},
			Explorer: "https://etherscan.io"},
		{Name: "sepolia", ChainID: 11155111, RPC: "https://ethereum-sepolia-rpc.publicnode.com",
			Fallback: []string{"https://rpc.sepolia.org", "https://rpc.ankr.com/eth_sepolia"},
			Explorer: "https://sepolia.etherscan.io"},
		{Name: "holesky", ChainID: 17000, RPC: "https://ethereum-holesky-rpc.publicnode.com",
			Explorer: "https://holesky.etherscan.io"},
		{Name: "base", ChainID: 8453, RPC: "https://mainnet.base.org",
			Fallback: []string{"https://base-rpc.publicnode.com"},
			Explorer: "https://basescan.org"},
		{Name: "base-sepolia", ChainID: 84532, RPC: "https://sepolia.base.org",
			Fallback: []string{"https://base-sepolia-rpc.publicnode.com"},
			Explorer: "https://sepolia.basescan.org"},
		{Name: "optimism", ChainID: 10, RPC: "https://mainnet.optimism.io",
			Fallback: []string{"https://optimism-rpc.publicnode.com"},
			Explorer: "https://optimistic.etherscan.io"},
		{Name: "arbitrum", ChainID: 42161, RPC: "https://arb1.arbitrum.io/rpc",
			Fallback: []string{"https://arbitrum-one-rpc.publicnode.com"},
			Explorer: "https://arbiscan.io"},
		{Name: "polygon", ChainID: 137, RPC: "https://polygon-rpc.com",
			Fallback: []string{"https://polygon-bor-rpc.publicnode.com"},
			Explorer: "https://polygonscan.com"},
	}
}
