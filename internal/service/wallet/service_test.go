package wallet

import (
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkaforge/polkaforge/backend/internal/metrics"
	"github.com/polkaforge/polkaforge/backend/internal/service/wallet/substrate"
)

const bobAddress = "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty"

type fakeChain struct {
	free  int64
	block uint64
	err   error
	calls int
}

func (f *fakeChain) FreeBalance(_ context.Context, _ string) (substrate.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return substrate.Snapshot{}, f.err
	}
	return substrate.Snapshot{Free: big.NewInt(f.free), BlockNumber: f.block}, nil
}

func twoAccounts() []Account {
	return []Account{
		{Address: DemoAddress, Name: "Alice"},
		{Address: bobAddress, Name: "Bob"},
	}
}

func TestAccountsErrors(t *testing.T) {
	ctx := context.Background()

	svc := NewService(NewStaticProvider(false, nil), nil, NewMemoryStore())
	_, err := svc.Accounts(ctx)
	assert.ErrorIs(t, err, ErrExtensionNotFound)

	svc = NewService(NewStaticProvider(true, nil), nil, NewMemoryStore())
	_, err = svc.Accounts(ctx)
	assert.ErrorIs(t, err, ErrNoAccounts)

	_, err = svc.Connect(ctx, DemoAddress)
	assert.ErrorIs(t, err, ErrNoAccounts)
}

func TestConnectUsesChainBalance(t *testing.T) {
	ctx := context.Background()
	chain := &fakeChain{free: 12345678901234, block: 19000001}
	store := NewMemoryStore()
	svc := NewService(NewStaticProvider(true, twoAccounts()), chain, store)

	conn, err := svc.Connect(ctx, bobAddress)
	require.NoError(t, err)
	assert.Equal(t, "Bob", conn.Account.Name)
	assert.Equal(t, "1234.5679", conn.Balance.Free)
	assert.Equal(t, "DOT", conn.Balance.Symbol)
	assert.Equal(t, "19000001", conn.Balance.BlockNumber)
	assert.Equal(t, SourceChain, conn.Balance.Source)
	assert.Equal(t, PolkadotChainID, conn.Network.ChainID)
	assert.Equal(t, "Polkadot", conn.Network.Name)

	saved, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, bobAddress, saved.Address)

	current, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, conn, current)
}

func TestConnectSelection(t *testing.T) {
	ctx := context.Background()

	multi := NewService(NewStaticProvider(true, twoAccounts()), nil, NewMemoryStore())
	_, err := multi.Connect(ctx, "")
	assert.ErrorIs(t, err, ErrAccountRequired)

	_, err = multi.Connect(ctx, "5Unknown")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	single := NewService(NewStaticProvider(true, twoAccounts()[:1]), nil, NewMemoryStore())
	conn, err := single.Connect(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, DemoAddress, conn.Account.Address)
}

func TestPlaceholderBalanceOnChainFailure(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()

	for _, r := range []float64{0, 0.5, 0.999999999} {
		chain := &fakeChain{err: errors.New("dial tcp: connection refused")}
		svc := NewService(NewStaticProvider(true, twoAccounts()), chain, NewMemoryStore(),
			WithRandom(func() float64 { return r }), WithMetrics(m))

		conn, err := svc.Connect(ctx, DemoAddress)
		require.NoError(t, err)
		assert.Equal(t, SourcePlaceholder, conn.Balance.Source)
		assert.Empty(t, conn.Balance.BlockNumber)

		v, err := strconv.ParseFloat(conn.Balance.Free, 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 10.0)
		assert.Less(t, v, 110.0)
		assert.Regexp(t, `^\d+\.\d{4}$`, conn.Balance.Free)
	}
}

func TestPlaceholderWithoutChain(t *testing.T) {
	svc := NewService(NewStaticProvider(true, twoAccounts()), nil, NewMemoryStore(),
		WithRandom(func() float64 { return 0.25 }))
	conn, err := svc.Connect(context.Background(), DemoAddress)
	require.NoError(t, err)
	assert.Equal(t, "35.0000", conn.Balance.Free)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	chain := &fakeChain{free: 10_000_000_000, block: 1}
	svc := NewService(NewStaticProvider(true, twoAccounts()), chain, NewMemoryStore())

	_, err := svc.Refresh(ctx)
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = svc.Connect(ctx, DemoAddress)
	require.NoError(t, err)

	chain.free = 25_000_000_000
	chain.block = 2
	conn, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2.5000", conn.Balance.Free)
	assert.Equal(t, "2", conn.Balance.BlockNumber)
	assert.Equal(t, 2, chain.calls)
}

func TestDemo(t *testing.T) {
	ctx := context.Background()
	chain := &fakeChain{}
	store := NewMemoryStore()
	svc := NewService(NewStaticProvider(false, nil), chain, store)

	conn := svc.Demo(ctx)
	assert.Equal(t, DemoAddress, conn.Account.Address)
	assert.Equal(t, "125.42", conn.Balance.Free)
	assert.Equal(t, SourceDemo, conn.Balance.Source)

	refreshed, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, conn, refreshed)
	assert.Zero(t, chain.calls)

	_, ok, _ := store.Load(ctx)
	assert.False(t, ok, "demo connection must not be persisted")
}

func TestDisconnect(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(NewStaticProvider(true, twoAccounts()), nil, store)

	_, err := svc.Connect(ctx, DemoAddress)
	require.NoError(t, err)
	require.NoError(t, svc.Disconnect(ctx))

	_, err = svc.Current()
	assert.ErrorIs(t, err, ErrNotConnected)
	_, ok, _ := store.Load(ctx)
	assert.False(t, ok)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	store := NewMemoryStore()
	svc := NewService(NewStaticProvider(true, twoAccounts()), nil, store)
	_, ok, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, Account{Address: bobAddress}))
	conn, ok, err := svc.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Bob", conn.Account.Name)
}

func TestRestoreKeepsAccountNotOffered(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, Account{Address: bobAddress}))

	svc := NewService(NewStaticProvider(true, twoAccounts()[:1]), nil, store)
	_, ok, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	saved, stillSaved, _ := store.Load(ctx)
	require.True(t, stillSaved)
	assert.Equal(t, bobAddress, saved.Address)
	_, err = svc.Current()
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestRestoreForgetsAccountWhenAutoConnectFails(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, Account{Address: bobAddress}))

	svc := NewService(NewStaticProvider(false, nil), nil, store)
	_, ok, err := svc.Restore(ctx)
	assert.ErrorIs(t, err, ErrExtensionNotFound)
	assert.False(t, ok)

	_, stillSaved, _ := store.Load(ctx)
	assert.False(t, stillSaved)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "wallet.db")

	store, err := OpenSQLiteStore(ctx, path)
	require.NoError(t, err)

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, Account{Address: DemoAddress, Name: "Alice"}))
	require.NoError(t, store.Save(ctx, Account{Address: bobAddress, Name: "Bob"}))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Account{Address: bobAddress, Name: "Bob"}, got)

	require.NoError(t, reopened.Clear(ctx))
	_, ok, err = reopened.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseAccounts(t *testing.T) {
	accounts, err := ParseAccounts(" Alice = " + DemoAddress + " ,," + bobAddress)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Alice", accounts[0].Name)
	assert.Equal(t, DemoAddress, accounts[0].Address)
	assert.Equal(t, "", accounts[1].Name)
	assert.Equal(t, bobAddress, accounts[1].Address)

	accounts, err = ParseAccounts("")
	require.NoError(t, err)
	assert.Empty(t, accounts)

	_, err = ParseAccounts("Broken=")
	assert.Error(t, err)
}
