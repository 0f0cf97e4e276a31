package memory

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"token-flow-lab/internal/domain"
	"token-flow-lab/internal/storage"
)

func makeAccount(chain, address string, balance int64) *domain.Account {
	return &domain.Account{
		Chain:         chain,
		Address:       address,
		Balance:       big.NewInt(balance),
		TransferCount: 1,
	}
}

func TestAccountStore_ListPositive(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	err := store.Upsert(ctx, []*domain.Account{
		makeAccount("ethereum", "0xa", 50),
		makeAccount("base", "0xb", 70),
		makeAccount("ethereum", "0xc", 0),
		makeAccount("base", "0xd", -5),
		makeAccount("base", "0xa", 50),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	result, err := store.ListPositive(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListPositive failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("Expected 3 positive accounts, got %d", len(result))
	}

	// 70 first, then the two 50s ordered by chain
	if result[0].Address != "0xb" {
		t.Errorf("result[0] = %s, want 0xb", result[0].Address)
	}
	if result[1].Chain != "base" || result[2].Chain != "ethereum" {
		t.Errorf("tie order = %s, %s; want base, ethereum", result[1].Chain, result[2].Chain)
	}

	page, err := store.ListPositive(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListPositive failed: %v", err)
	}
	if len(page) != 1 || page[0].Chain != "ethereum" {
		t.Errorf("unexpected last page: %+v", page)
	}
}

func TestAccountStore_UpsertReplaces(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, []*domain.Account{makeAccount("ethereum", "0xA", 5)}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.Upsert(ctx, []*domain.Account{makeAccount("ethereum", "0xa", 9)}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	result, err := store.GetByAddresses(ctx, []string{"0xa"})
	if err != nil {
		t.Fatalf("GetByAddresses failed: %v", err)
	}
	if len(result) != 1 || result[0].Balance.Int64() != 9 {
		t.Errorf("expected single replaced row with balance 9, got %+v", result)
	}
}

func TestAccountStore_GetByAddresses(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, []*domain.Account{
		makeAccount("ethereum", "0xa", 1),
		makeAccount("base", "0xa", 2),
		makeAccount("base", "0xb", 3),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	result, err := store.GetByAddresses(ctx, []string{"0xA", "0xmissing"})
	if err != nil {
		t.Fatalf("GetByAddresses failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(result))
	}
	if result[0].Chain != "base" || result[1].Chain != "ethereum" {
		t.Errorf("unexpected order: %s, %s", result[0].Chain, result[1].Chain)
	}

	empty, err := store.GetByAddresses(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("GetByAddresses(nil) = %v, %v", empty, err)
	}
}

func TestAccountStore_InvalidInput(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	err := store.Upsert(ctx, []*domain.Account{{Chain: "ethereum", Address: "0xa"}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if _, err := store.ListPositive(ctx, 0, 0); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for zero limit, got %v", err)
	}
}
