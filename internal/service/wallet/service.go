package wallet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/polkaforge/polkaforge/backend/internal/metrics"
	"github.com/polkaforge/polkaforge/backend/internal/service/wallet/substrate"
)

var (
	ErrExtensionNotFound = errors.New("no polkadot wallet extension found")
	ErrNoAccounts        = errors.New("no accounts found in wallet extension")
	ErrAccountNotFound   = errors.New("account is not offered by the wallet extension")
	ErrAccountRequired   = errors.New("several accounts available, choose one")
	ErrNotConnected      = errors.New("wallet not connected")
)

// BalanceReader fetches the on-chain free balance of an address.
type BalanceReader interface {
	FreeBalance(ctx context.Context, address string) (substrate.Snapshot, error)
}

// Service tracks the single connected wallet of this demo backend.
type Service struct {
	provider Provider
	chain    BalanceReader
	store    AccountStore
	metrics  *metrics.Metrics
	log      zerolog.Logger
	random   func() float64

	mu      sync.Mutex
	current *Connection
}

// Option customises a Service.
type Option func(*Service)

// WithRandom replaces the placeholder balance generator. f must return values in [0, 1).
func WithRandom(f func() float64) Option {
	return func(s *Service) { s.random = f }
}

// WithMetrics enables metrics recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService wires a wallet service. chain may be nil, in which case every
// balance is a placeholder.
func NewService(provider Provider, chain BalanceReader, store AccountStore, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		chain:    chain,
		store:    store,
		log:      zerolog.Nop(),
		random:   rand.Float64,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Accounts lists the extension's accounts.
func (s *Service) Accounts(ctx context.Context) ([]Account, error) {
	accounts, err := s.provider.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}
	return accounts, nil
}

// Connect selects address, fetches its balance and remembers it. An empty
// address is accepted when the extension offers exactly one account.
func (s *Service) Connect(ctx context.Context, address string) (Connection, error) {
	accounts, err := s.Accounts(ctx)
	if err != nil {
		return Connection{}, err
	}

	account, err := selectAccount(accounts, address)
	if err != nil {
		return Connection{}, err
	}

	conn := Connection{
		Account: account,
		Balance: s.balance(ctx, account.Address),
		Network: polkadot(),
	}
	if err := s.store.Save(ctx, account); err != nil {
		return Connection{}, err
	}

	s.setCurrent(&conn)
	s.log.Info().
		Str("address", account.Address).
		Str("balance_source", string(conn.Balance.Source)).
		Msg("wallet connected")
	return conn, nil
}

func selectAccount(accounts []Account, address string) (Account, error) {
	if address == "" {
		if len(accounts) == 1 {
			return accounts[0], nil
		}
		return Account{}, ErrAccountRequired
	}
	for _, a := range accounts {
		if a.Address == address {
			return a, nil
		}
	}
	return Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
}

// Demo connects the built-in demo account without touching the chain or the store.
func (s *Service) Demo(context.Context) Connection {
	conn := Connection{
		Account: Account{Address: DemoAddress, Name: DemoName, Source: "demo"},
		Balance: Balance{Free: DemoBalance, Symbol: TokenSymbol, Source: SourceDemo},
		Network: polkadot(),
	}
	s.setCurrent(&conn)
	return conn
}

// Current returns the connected wallet.
func (s *Service) Current() (Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Connection{}, ErrNotConnected
	}
	return *s.current, nil
}

// Refresh re-reads the balance of the connected account.
func (s *Service) Refresh(ctx context.Context) (Connection, error) {
	conn, err := s.Current()
	if err != nil {
		return Connection{}, err
	}
	if conn.Balance.Source == SourceDemo {
		return conn, nil
	}

	conn.Balance = s.balance(ctx, conn.Account.Address)
	s.mu.Lock()
	if s.current != nil && s.current.Account.Address == conn.Account.Address {
		s.current = &conn
	}
	s.mu.Unlock()
	return conn, nil
}

// Disconnect forgets the connected wallet and the saved account.
func (s *Service) Disconnect(ctx context.Context) error {
	s.setCurrent(nil)
	return s.store.Clear(ctx)
}

// Restore reconnects the saved account if the extension still offers it.
// An account that is not offered right now stays saved for a later attempt.
// The saved account is removed only when auto-connect fails.
func (s *Service) Restore(ctx context.Context) (Connection, bool, error) {
	saved, ok, err := s.store.Load(ctx)
	if err != nil || !ok {
		return Connection{}, false, err
	}

	conn, found, err := s.reconnect(ctx, saved.Address)
	if err != nil {
		s.log.Warn().Err(err).Str("address", saved.Address).Msg("auto-connect failed, forgetting saved account")
		return Connection{}, false, errors.Join(err, s.store.Clear(ctx))
	}
	if !found {
		s.log.Info().Str("address", saved.Address).Msg("saved wallet account not offered by the extension")
	}
	return conn, found, nil
}

func (s *Service) reconnect(ctx context.Context, address string) (Connection, bool, error) {
	accounts, err := s.provider.Accounts(ctx)
	if err != nil {
		return Connection{}, false, err
	}
	for _, a := range accounts {
		if a.Address == address {
			conn, err := s.Connect(ctx, a.Address)
			if err != nil {
				return Connection{}, false, err
			}
			return conn, true, nil
		}
	}
	return Connection{}, false, nil
}

// Close releases the account store.
func (s *Service) Close() error {
	return s.store.Close()
}

func (s *Service) setCurrent(conn *Connection) {
	s.mu.Lock()
	s.current = conn
	s.mu.Unlock()
}

func (s *Service) balance(ctx context.Context, address string) Balance {
	if s.chain != nil {
		snap, err := s.chain.FreeBalance(ctx, address)
		if err == nil {
			return Balance{
				Free:        substrate.FormatUnits(snap.Free, substrate.PolkadotDecimals, 4),
				Symbol:      TokenSymbol,
				BlockNumber: strconv.FormatUint(snap.BlockNumber, 10),
				Source:      SourceChain,
			}
		}
		s.log.Warn().Err(err).Str("address", address).Msg("balance lookup failed, using placeholder")
	}

	s.metrics.RecordPlaceholderBalance()
	// truncate so rounding can never reach the upper bound
	free := math.Floor((10+s.random()*100)*1e4) / 1e4
	return Balance{
		Free:   strconv.FormatFloat(free, 'f', 4, 64),
		Symbol: TokenSymbol,
		Source: SourcePlaceholder,
	}
}
