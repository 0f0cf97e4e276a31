// Package fixtures provides a small deterministic two-chain ledger for demos and tests.
package fixtures

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"token-flow-lab/internal/amount"
	"token-flow-lab/internal/domain"
	"token-flow-lab/internal/idhash"
	"token-flow-lab/internal/labels"
	"token-flow-lab/internal/storage"
)

// Chains of the demo ledger.
const (
	ChainEthereum = "ethereum"
	ChainBase     = "base"
)

// Well-known demo wallets.
const (
	Treasury = "0x5a52e96bacdabb82fd05763e25335261b270efcb"
	Binance  = "0x28c6c06298d514db089934071355e5743bf21d60"
	Coinbase = "0x71660c4005ba85c37ccec55d0c4493e66fe775d3"
	Bridge   = "0x3154cf16ccdb4c6d922629664174b904d80f2c35"
	WhaleOne = "0x8eb8a3b98659cce290402893d0123abb75e3ab28"
	WhaleTwo = "0x9bf4001d307dfd62b26a2f1307ee0c0307632d59"
)

const retailCount = 10

// Retail returns the i-th demo retail wallet.
func Retail(i int) string {
	return fmt.Sprintf("0x%040x", 0xfeed0000+i)
}

// Labels returns the directory entries of the named demo wallets.
func Labels() labels.Directory {
	return labels.Directory{
		Treasury: "Token Treasury",
		Binance:  "Binance 14",
		Coinbase: "Coinbase 10",
		Bridge:   "Base Bridge (L1)",
		WhaleOne: "Whale 1",
	}
}

type step struct {
	chain string
	age   time.Duration
	from  string
	to    string
	value string // decimal token amount
}

func day(n float64) time.Duration {
	return time.Duration(n * float64(24*time.Hour))
}

func schedule() []step {
	zero := domain.ZeroAddress
	steps := []step{
		{ChainEthereum, day(45), zero, Treasury, "1000000"},
		{ChainEthereum, day(44), Treasury, Binance, "200000"},
		{ChainEthereum, day(44), Treasury, Coinbase, "150000"},
		{ChainEthereum, day(40), Treasury, Bridge, "100000"},
		{ChainBase, day(40), zero, WhaleTwo, "100000"},
		{ChainEthereum, day(25), Binance, WhaleOne, "50000"},
		{ChainEthereum, day(20), WhaleOne, WhaleOne, "1000"},
	}
	for i := 0; i < retailCount; i++ {
		steps = append(steps, step{ChainBase, day(10), WhaleTwo, Retail(i), fmt.Sprintf("%d.11", 2500+i*111)})
	}
	steps = append(steps,
		step{ChainEthereum, day(5), WhaleOne, Binance, "20000"},
		step{ChainBase, day(3), Retail(0), zero, "100"},
		step{ChainEthereum, day(2), Treasury, WhaleOne, "75000.25"},
		step{ChainEthereum, day(1), Binance, Retail(3), "333.333333333333333333"},
		step{ChainBase, 6 * time.Hour, WhaleTwo, Coinbase, "10000"},
	)
	return steps
}

// Transfers returns the demo transfer log ending just before now, in ledger order.
// Transfers sharing a chain and timestamp share a block and take consecutive log indexes.
func Transfers(now time.Time) []*domain.Transfer {
	now = now.UTC().Truncate(time.Second)
	start := now.Add(-day(46)).Unix()

	var out []*domain.Transfer
	logIndex := make(map[string]uint)
	for seq, s := range schedule() {
		raw, err := amount.Parse(s.value)
		if err != nil {
			panic(fmt.Sprintf("fixture amount %q: %v", s.value, err))
		}

		ts := now.Add(-s.age).Unix()
		block := blockAt(s.chain, ts-start)
		key := fmt.Sprintf("%s|%d", s.chain, block)
		idx := logIndex[key]
		logIndex[key] = idx + 1

		t := &domain.Transfer{
			Chain:       s.chain,
			BlockNumber: block,
			TxHash:      fmt.Sprintf("0x%064x", 0xda7a0000+seq),
			LogIndex:    idx,
			Timestamp:   ts,
			From:        s.from,
			To:          s.to,
			Value:       raw,
		}
		t.ID = idhash.ComputeTransferID(t.Chain, t.TxHash, t.LogIndex)
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		if out[i].Chain != out[j].Chain {
			return out[i].Chain < out[j].Chain
		}
		return out[i].LogIndex < out[j].LogIndex
	})
	return out
}

// blockAt maps seconds since the ledger start to a block height at the chain's block time.
func blockAt(chain string, elapsed int64) uint64 {
	if chain == ChainBase {
		return 12_000_000 + uint64(elapsed/2)
	}
	return 19_000_000 + uint64(elapsed/12)
}

// BuildAccounts derives the per-chain balance ledger from transfers, applying them
// in order. The zero address never gets a row.
func BuildAccounts(transfers []*domain.Transfer) []*domain.Account {
	rows := make(map[string]*domain.Account)
	apply := func(t *domain.Transfer, addr string, delta *big.Int) {
		if domain.IsZeroAddress(addr) {
			return
		}
		addr = strings.ToLower(addr)
		key := t.Chain + "|" + addr
		a, ok := rows[key]
		if !ok {
			a = &domain.Account{Chain: t.Chain, Address: addr, Balance: new(big.Int)}
			rows[key] = a
		}
		a.Balance.Add(a.Balance, delta)
		a.TransferCount++
		if t.BlockNumber > a.LastBlock {
			a.LastBlock = t.BlockNumber
		}
		if t.Timestamp > a.UpdatedAt {
			a.UpdatedAt = t.Timestamp
		}
	}

	for _, t := range transfers {
		apply(t, t.From, new(big.Int).Neg(t.Value))
		apply(t, t.To, t.Value)
	}

	out := make([]*domain.Account, 0, len(rows))
	for _, a := range rows {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Chain != out[j].Chain {
			return out[i].Chain < out[j].Chain
		}
		return out[i].Address < out[j].Address
	})
	return out
}

// Load populates stores with the demo ledger as of now.
func Load(ctx context.Context, transfers storage.TransferStore, accounts storage.AccountStore, now time.Time) error {
	log := Transfers(now)

	for i, batch := range storage.Batches(log, storage.DefaultPageSize) {
		if err := transfers.InsertBulk(ctx, batch); err != nil {
			return fmt.Errorf("insert transfers batch %d: %w", i, err)
		}
	}
	if err := accounts.Upsert(ctx, BuildAccounts(log)); err != nil {
		return fmt.Errorf("upsert accounts: %w", err)
	}
	return nil
}
