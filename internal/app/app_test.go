package app

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmorton/folio/internal/common"
	"github.com/bmorton/folio/internal/interfaces"
	"github.com/bmorton/folio/internal/models"
	"github.com/bmorton/folio/internal/portfolio"
	"github.com/bmorton/folio/internal/services/quote"
	"github.com/bmorton/folio/internal/services/session"
	"github.com/bmorton/folio/internal/storage/userdb"
)

// memStore is an in-memory SessionStore with the contract's insert/update
// semantics.
type memStore struct {
	snapshots map[int64]*models.SessionSnapshot
}

func newMemStore() *memStore {
	return &memStore{snapshots: make(map[int64]*models.SessionSnapshot)}
}

func (m *memStore) Get(ctx context.Context, userID int64) (*models.SessionSnapshot, error) {
	snap, ok := m.snapshots[userID]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, interfaces.ErrSnapshotNotFound)
	}
	clone := *snap
	clone.Holdings = make(map[string]models.Holding, len(snap.Holdings))
	for k, v := range snap.Holdings {
		clone.Holdings[k] = v
	}
	return &clone, nil
}

func (m *memStore) Insert(ctx context.Context, snapshot *models.SessionSnapshot) error {
	if _, ok := m.snapshots[snapshot.UserID]; ok {
		return fmt.Errorf("user %d: %w", snapshot.UserID, interfaces.ErrDuplicateSnapshot)
	}
	m.snapshots[snapshot.UserID] = snapshot
	return nil
}

func (m *memStore) Update(ctx context.Context, snapshot *models.SessionSnapshot) error {
	if _, ok := m.snapshots[snapshot.UserID]; !ok {
		return fmt.Errorf("user %d: %w", snapshot.UserID, interfaces.ErrSnapshotNotFound)
	}
	m.snapshots[snapshot.UserID] = snapshot
	return nil
}

func (m *memStore) Delete(ctx context.Context, userID int64) error {
	delete(m.snapshots, userID)
	return nil
}

// fakeOracle serves prices from a map.
type fakeOracle struct {
	prices map[string]float64
}

func (o *fakeOracle) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	price, ok := o.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, interfaces.ErrLookupFailed)
	}
	return &models.Quote{Symbol: symbol, Price: price}, nil
}

func (o *fakeOracle) GetOverview(ctx context.Context, symbol string) (*models.Overview, error) {
	if _, ok := o.prices[symbol]; !ok {
		return nil, fmt.Errorf("%s: %w", symbol, interfaces.ErrLookupFailed)
	}
	return &models.Overview{Symbol: symbol, Name: symbol + " Inc"}, nil
}

func (o *fakeOracle) GetHistory(ctx context.Context, symbol string, size int) ([]models.Candle, error) {
	return nil, interfaces.ErrLookupFailed
}

func testApp(t *testing.T, oracle interfaces.PriceOracle, startingFunds float64) *App {
	t.Helper()
	logger := common.NewSilentLogger()

	users, err := userdb.NewStore(filepath.Join(t.TempDir(), "folio.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { users.Close() })

	config := common.NewDefaultConfig()
	config.Portfolio.StartingFunds = startingFunds

	return &App{
		Config:         config,
		Logger:         logger,
		Users:          users,
		QuoteService:   quote.NewService(oracle, logger),
		SessionService: session.NewService(newMemStore(), logger),
		sessions:       newSessionRegistry(),
	}
}

func TestLoginCreatesUserAndSession(t *testing.T) {
	a := testApp(t, &fakeOracle{}, 1000)
	ctx := context.Background()

	userID, err := a.Login(ctx, "alice")
	require.NoError(t, err)
	assert.NotZero(t, userID)
	assert.Equal(t, 1, a.ActiveSessions())

	err = a.WithPortfolio(userID, func(p *portfolio.Portfolio) error {
		assert.Equal(t, 1000.0, p.CashBalance())
		assert.Empty(t, p.Holdings())
		return nil
	})
	require.NoError(t, err)

	// The user row is durable.
	user, err := a.Users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
}

func TestLoginTwiceKeepsLiveSession(t *testing.T) {
	oracle := &fakeOracle{prices: map[string]float64{"AAPL": 100}}
	a := testApp(t, oracle, 1000)
	ctx := context.Background()

	userID, err := a.Login(ctx, "bob")
	require.NoError(t, err)

	require.NoError(t, a.WithPortfolio(userID, func(p *portfolio.Portfolio) error {
		return p.Buy(ctx, "AAPL", 2)
	}))

	again, err := a.Login(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, userID, again)
	assert.Equal(t, 1, a.ActiveSessions())

	// The live portfolio was not reset by the second login.
	require.NoError(t, a.WithPortfolio(userID, func(p *portfolio.Portfolio) error {
		h, ok := p.Holding("AAPL")
		require.True(t, ok)
		assert.Equal(t, int64(2), h.Quantity)
		return nil
	}))
}

func TestLogoutPersistsAndLoginRestores(t *testing.T) {
	oracle := &fakeOracle{prices: map[string]float64{"AAPL": 100}}
	a := testApp(t, oracle, 1000)
	ctx := context.Background()

	userID, err := a.Login(ctx, "carol")
	require.NoError(t, err)

	require.NoError(t, a.WithPortfolio(userID, func(p *portfolio.Portfolio) error {
		return p.Buy(ctx, "AAPL", 3)
	}))

	require.NoError(t, a.Logout(ctx, userID))
	assert.Zero(t, a.ActiveSessions())

	// A fresh login hydrates cash and holdings from the snapshot, not from
	// the configured starting funds.
	restored, err := a.Login(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, userID, restored)

	require.NoError(t, a.WithPortfolio(userID, func(p *portfolio.Portfolio) error {
		assert.Equal(t, 700.0, p.CashBalance())
		h, ok := p.Holding("AAPL")
		require.True(t, ok)
		assert.Equal(t, int64(3), h.Quantity)
		assert.Equal(t, 100.0, h.CurrentPrice)
		return nil
	}))
}

func TestLogoutWithoutSession(t *testing.T) {
	a := testApp(t, &fakeOracle{}, 0)

	err := a.Logout(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestWithPortfolioWithoutSession(t *testing.T) {
	a := testApp(t, &fakeOracle{}, 0)

	err := a.WithPortfolio(42, func(p *portfolio.Portfolio) error { return nil })
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestLogoutAll(t *testing.T) {
	a := testApp(t, &fakeOracle{}, 500)
	ctx := context.Background()

	_, err := a.Login(ctx, "u1")
	require.NoError(t, err)
	_, err = a.Login(ctx, "u2")
	require.NoError(t, err)
	require.Equal(t, 2, a.ActiveSessions())

	a.LogoutAll(ctx)
	assert.Zero(t, a.ActiveSessions())
}

func TestRefreshPricesUpdatesLiveSessions(t *testing.T) {
	oracle := &fakeOracle{prices: map[string]float64{"AAPL": 100, "MSFT": 400}}
	a := testApp(t, oracle, 10000)
	ctx := context.Background()

	userID, err := a.Login(ctx, "dave")
	require.NoError(t, err)

	require.NoError(t, a.WithPortfolio(userID, func(p *portfolio.Portfolio) error {
		if err := p.Buy(ctx, "AAPL", 1); err != nil {
			return err
		}
		return p.Buy(ctx, "MSFT", 1)
	}))

	oracle.prices["AAPL"] = 110
	oracle.prices["MSFT"] = 390

	refreshPrices(ctx, a.sessions, a.Logger)

	require.NoError(t, a.WithPortfolio(userID, func(p *portfolio.Portfolio) error {
		aapl, _ := p.Holding("AAPL")
		msft, _ := p.Holding("MSFT")
		assert.Equal(t, 110.0, aapl.CurrentPrice)
		assert.Equal(t, 390.0, msft.CurrentPrice)
		return nil
	}))
}

func TestRefreshPricesSkipsFailedSymbols(t *testing.T) {
	oracle := &fakeOracle{prices: map[string]float64{"AAPL": 100}}
	a := testApp(t, oracle, 1000)
	ctx := context.Background()

	userID, err := a.Login(ctx, "erin")
	require.NoError(t, err)

	require.NoError(t, a.WithPortfolio(userID, func(p *portfolio.Portfolio) error {
		return p.Buy(ctx, "AAPL", 1)
	}))

	// Price disappears from the oracle; refresh keeps the cached value.
	delete(oracle.prices, "AAPL")
	refreshPrices(ctx, a.sessions, a.Logger)

	require.NoError(t, a.WithPortfolio(userID, func(p *portfolio.Portfolio) error {
		h, _ := p.Holding("AAPL")
		assert.Equal(t, 100.0, h.CurrentPrice)
		return nil
	}))
}
