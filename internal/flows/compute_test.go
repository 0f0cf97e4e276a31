package flows

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-flow-lab/internal/domain"
)

const (
	addrA = "0x00000000000000000000000000000000000000aa"
	addrB = "0x00000000000000000000000000000000000000bb"
	addrC = "0x00000000000000000000000000000000000000cc"
)

func transfer(chain string, ts int64, from, to string, value int64) *domain.Transfer {
	return &domain.Transfer{
		Chain:     chain,
		TxHash:    fmt.Sprintf("0x%x", ts),
		Timestamp: ts,
		From:      from,
		To:        to,
		Value:     big.NewInt(value),
	}
}

func byAddress(entries []*domain.FlowEntry) map[string]*domain.FlowEntry {
	m := make(map[string]*domain.FlowEntry, len(entries))
	for _, e := range entries {
		m[e.Address] = e
	}
	return m
}

func TestCompute_Windows(t *testing.T) {
	now := int64(100 * 86400)
	day := int64(86400)
	transfers := []*domain.Transfer{
		transfer("ethereum", now-20*day, addrB, addrC, 40),
		transfer("ethereum", now-1*day, addrA, addrB, 100),
	}

	week := byAddress(Compute(transfers, now-7*day))
	require.Len(t, week, 2)
	assert.Equal(t, "0", week[addrA].Inflow.String())
	assert.Equal(t, "100", week[addrA].Outflow.String())
	assert.Equal(t, "-100", week[addrA].Net().String())
	assert.Equal(t, "100", week[addrB].Inflow.String())
	assert.Equal(t, "0", week[addrB].Outflow.String())
	assert.NotContains(t, week, addrC)

	month := byAddress(Compute(transfers, now-30*day))
	require.Len(t, month, 3)
	assert.Equal(t, "100", month[addrB].Inflow.String())
	assert.Equal(t, "40", month[addrB].Outflow.String())
	assert.Equal(t, "60", month[addrB].Net().String())
	assert.Equal(t, 2, month[addrB].Count)
	assert.Equal(t, "40", month[addrC].Inflow.String())
	assert.Equal(t, "100", month[addrA].Outflow.String())

	for addr := range week {
		assert.Contains(t, month, addr, "7d address missing from 30d pass")
	}
}

func TestCompute_CutoffInclusive(t *testing.T) {
	transfers := []*domain.Transfer{transfer("base", 500, addrA, addrB, 1)}

	assert.Len(t, Compute(transfers, 500), 2)
	assert.Empty(t, Compute(transfers, 501))
}

func TestCompute_ZeroAddressSides(t *testing.T) {
	transfers := []*domain.Transfer{
		transfer("ethereum", 10, domain.ZeroAddress, addrA, 1000),
		transfer("base", 11, addrA, domain.ZeroAddress, 300),
	}

	entries := Compute(transfers, 0)
	require.Len(t, entries, 1)

	a := entries[0]
	assert.Equal(t, addrA, a.Address)
	assert.Equal(t, "1000", a.Inflow.String())
	assert.Equal(t, "300", a.Outflow.String())
	assert.Equal(t, 2, a.Count)
	assert.Equal(t, []string{"base", "ethereum"}, a.ChainList())
}

func TestCompute_SelfTransfer(t *testing.T) {
	entries := Compute([]*domain.Transfer{transfer("ethereum", 1, addrA, addrA, 25)}, 0)
	require.Len(t, entries, 1)

	assert.Equal(t, "25", entries[0].Inflow.String())
	assert.Equal(t, "25", entries[0].Outflow.String())
	assert.Equal(t, 0, entries[0].Net().Sign())
	assert.Equal(t, 2, entries[0].Count)
}

func TestCompute_MergesCaseAcrossChains(t *testing.T) {
	upper := "0x00000000000000000000000000000000000000AA"
	entries := Compute([]*domain.Transfer{
		transfer("ethereum", 1, addrB, upper, 5),
		transfer("base", 2, addrB, addrA, 7),
	}, 0)

	a := byAddress(entries)[addrA]
	require.NotNil(t, a)
	assert.Equal(t, "12", a.Inflow.String())
	assert.Equal(t, []string{"base", "ethereum"}, a.ChainList())
}

func TestCompute_FirstSeenOrder(t *testing.T) {
	entries := Compute([]*domain.Transfer{
		transfer("ethereum", 1, addrC, addrB, 1),
		transfer("ethereum", 2, addrA, addrC, 1),
	}, 0)

	require.Len(t, entries, 3)
	assert.Equal(t, addrC, entries[0].Address)
	assert.Equal(t, addrB, entries[1].Address)
	assert.Equal(t, addrA, entries[2].Address)
}

func TestRank_TruncatesInOrder(t *testing.T) {
	var entries []*domain.FlowEntry
	// Ascending input so ranking must reverse it.
	for i := 1; i <= 60; i++ {
		e := domain.NewFlowEntry(fmt.Sprintf("0x%040x", i))
		e.Inflow.SetInt64(int64(i * 10))
		entries = append(entries, e)
	}

	ranked := Rank(entries, DefaultTopN)
	require.Len(t, ranked, 50)
	for i, e := range ranked {
		assert.Equal(t, fmt.Sprintf("0x%040x", 60-i), e.Address)
	}
	assert.Equal(t, fmt.Sprintf("0x%040x", 1), entries[0].Address, "input must not be reordered")
}

func TestRank_AbsoluteMagnitude(t *testing.T) {
	churner := domain.NewFlowEntry(addrA)
	churner.Outflow.SetInt64(500)

	accumulator := domain.NewFlowEntry(addrB)
	accumulator.Inflow.SetInt64(200)

	ranked := Rank([]*domain.FlowEntry{accumulator, churner}, 10)
	require.Len(t, ranked, 2)
	assert.Equal(t, addrA, ranked[0].Address)
	assert.Equal(t, addrB, ranked[1].Address)
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	var entries []*domain.FlowEntry
	for _, addr := range []string{addrC, addrA, addrB} {
		e := domain.NewFlowEntry(addr)
		e.Inflow.SetInt64(7)
		entries = append(entries, e)
	}

	ranked := Rank(entries, 10)
	assert.Equal(t, addrC, ranked[0].Address)
	assert.Equal(t, addrA, ranked[1].Address)
	assert.Equal(t, addrB, ranked[2].Address)
}

func TestRank_FewerThanN(t *testing.T) {
	assert.Empty(t, Rank(nil, DefaultTopN))

	e := domain.NewFlowEntry(addrA)
	assert.Len(t, Rank([]*domain.FlowEntry{e}, DefaultTopN), 1)
}
