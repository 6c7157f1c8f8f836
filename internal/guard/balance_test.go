package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type mockClient struct {
	balances []uint64
	errs     []error
	calls    int
}

func (m *mockClient) GetBalance(_ context.Context, _ solana.PublicKey, _ rpc.CommitmentType) (uint64, error) {
	i := m.calls
	m.calls++
	if i < len(m.errs) && m.errs[i] != nil {
		return 0, m.errs[i]
	}
	if i < len(m.balances) {
		return m.balances[i], nil
	}
	return m.balances[len(m.balances)-1], nil
}

func (m *mockClient) SendTransaction(_ context.Context, _ *solana.Transaction) (solana.Signature, error) {
	return solana.Signature{}, errors.New("not implemented")
}

func TestBalanceGuard_Check(t *testing.T) {
	tests := []struct {
		name    string
		balance uint64
		allowed bool
	}{
		{name: "above threshold", balance: 50_000_000, allowed: true},
		{name: "at threshold", balance: 20_000_000, allowed: true},
		{name: "below threshold", balance: 19_999_999, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{balances: []uint64{tt.balance}}
			g := NewBalanceGuard(client, solana.NewWallet().PublicKey(), 20_000_000, Options{}, zaptest.NewLogger(t))

			d := g.Check(context.Background())
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.balance, d.Balance)
			assert.NoError(t, d.Err)
			assert.Equal(t, tt.allowed, d.Reason() == "")
		})
	}
}

func TestBalanceGuard_FreshOnEveryCall(t *testing.T) {
	client := &mockClient{balances: []uint64{50_000_000, 10}}
	g := NewBalanceGuard(client, solana.NewWallet().PublicKey(), 20_000_000, Options{}, zaptest.NewLogger(t))

	assert.True(t, g.CanBuy(context.Background()))
	assert.False(t, g.CanBuy(context.Background()))
	assert.Equal(t, 2, client.calls)

	d := Decision{Balance: 10_000_000, Threshold: 20_000_000}
	assert.Equal(t, "Low balance detected: 0.0100 SOL only available, Quitting.", d.Reason())
}

func TestBalanceGuard_RetriesThenSucceeds(t *testing.T) {
	client := &mockClient{
		errs:     []error{errors.New("rpc timeout"), nil},
		balances: []uint64{0, 30_000_000},
	}
	g := NewBalanceGuard(client, solana.NewWallet().PublicKey(), 20_000_000, Options{Attempts: 3}, zaptest.NewLogger(t))

	d := g.Check(context.Background())
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, client.calls)
}

func TestBalanceGuard_FailsClosed(t *testing.T) {
	rpcErr := errors.New("rpc down")
	client := &mockClient{errs: []error{rpcErr, rpcErr}, balances: []uint64{0}}
	g := NewBalanceGuard(client, solana.NewWallet().PublicKey(), 20_000_000, Options{Attempts: 2}, zaptest.NewLogger(t))

	d := g.Check(context.Background())
	assert.False(t, d.Allowed)
	assert.ErrorIs(t, d.Err, rpcErr)
	assert.Contains(t, d.Reason(), "Failed to check balance")
	assert.Equal(t, 2, client.calls)
}
