package domain

import (
	"math/big"
	"sort"
)

// FlowEntry accumulates one address's movements inside a flow window.
type FlowEntry struct {
	Address string
	Inflow  *big.Int
	Outflow *big.Int
	Count   int
	Chains  map[string]struct{}
}

// NewFlowEntry creates an empty entry for address.
func NewFlowEntry(address string) *FlowEntry {
	return &FlowEntry{
		Address: address,
		Inflow:  new(big.Int),
		Outflow: new(big.Int),
		Chains:  make(map[string]struct{}),
	}
}

// Net returns inflow minus outflow.
func (e *FlowEntry) Net() *big.Int {
	return new(big.Int).Sub(e.Inflow, e.Outflow)
}

// ChainList returns the touched chains sorted alphabetically.
func (e *FlowEntry) ChainList() []string {
	return sortedChains(e.Chains)
}

// HolderEntry is one address's balance summed across chains.
type HolderEntry struct {
	Address       string
	Balance       *big.Int
	TransferCount int64
	Chains        map[string]struct{}
}

// NewHolderEntry creates an empty entry for address.
func NewHolderEntry(address string) *HolderEntry {
	return &HolderEntry{
		Address: address,
		Balance: new(big.Int),
		Chains:  make(map[string]struct{}),
	}
}

// ChainList returns the chains holding a balance, sorted alphabetically.
func (e *HolderEntry) ChainList() []string {
	return sortedChains(e.Chains)
}

func sortedChains(set map[string]struct{}) []string {
	chains := make([]string, 0, len(set))
	for c := range set {
		chains = append(chains, c)
	}
	sort.Strings(chains)
	return chains
}
