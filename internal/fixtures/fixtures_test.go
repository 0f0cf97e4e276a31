package fixtures

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-flow-lab/internal/amount"
	"token-flow-lab/internal/domain"
	"token-flow-lab/internal/storage/memory"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestTransfers_Deterministic(t *testing.T) {
	a := Transfers(now)
	b := Transfers(now)
	require.Equal(t, a, b)

	ids := make(map[string]struct{})
	for i, tr := range a {
		_, dup := ids[tr.ID]
		assert.False(t, dup, "duplicate id %s", tr.ID)
		ids[tr.ID] = struct{}{}

		assert.Less(t, tr.Timestamp, now.Unix())
		if i > 0 {
			assert.LessOrEqual(t, a[i-1].Timestamp, tr.Timestamp)
		}
	}
}

func TestBuildAccounts_Balances(t *testing.T) {
	accounts := BuildAccounts(Transfers(now))

	summed := make(map[string]*big.Int)
	for _, a := range accounts {
		assert.NotEqual(t, domain.ZeroAddress, a.Address)
		assert.GreaterOrEqual(t, a.Balance.Sign(), 0, "%s on %s went negative", a.Address, a.Chain)
		if _, ok := summed[a.Address]; !ok {
			summed[a.Address] = new(big.Int)
		}
		summed[a.Address].Add(summed[a.Address], a.Balance)
	}

	want := map[string]string{
		Treasury: "474999.75",
		Binance:  "169666.666666666666666667",
		Coinbase: "160000",
		WhaleOne: "105000.25",
		Bridge:   "100000",
		WhaleTwo: "60003.9",
	}
	for addr, balance := range want {
		assert.Equal(t, balance, amount.Format(summed[addr]), addr)
	}
}

func TestBuildAccounts_SelfTransferCountsTwice(t *testing.T) {
	self := &domain.Transfer{Chain: ChainEthereum, BlockNumber: 5, Timestamp: 9, From: WhaleOne, To: WhaleOne, Value: big.NewInt(10)}
	accounts := BuildAccounts([]*domain.Transfer{self})

	require.Len(t, accounts, 1)
	assert.Equal(t, int64(0), accounts[0].Balance.Int64())
	assert.Equal(t, int64(2), accounts[0].TransferCount)
	assert.Equal(t, uint64(5), accounts[0].LastBlock)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	transfers := memory.NewTransferStore()
	accounts := memory.NewAccountStore()

	require.NoError(t, Load(ctx, transfers, accounts, now))

	count, err := transfers.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(Transfers(now))), count)

	positive, err := accounts.ListPositive(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, positive, 1)
	assert.Equal(t, Treasury, positive[0].Address)

	// A second load collides on transfer ids.
	assert.Error(t, Load(ctx, transfers, accounts, now))
}

func TestLabels_CoverNamedWallets(t *testing.T) {
	dir := Labels()
	for _, addr := range []string{Treasury, Binance, Coinbase, Bridge, WhaleOne} {
		_, ok := dir.Lookup(addr)
		assert.True(t, ok, addr)
	}
	_, ok := dir.Lookup(WhaleTwo)
	assert.False(t, ok)
}
