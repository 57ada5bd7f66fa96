// Package table orchestrates rounds against the ledger: wager gating,
// the one-round-per-player rule, and settlement of terminal outcomes.
// Both the Discord frontend and the websocket server drive rounds
// exclusively through this service.
package table

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jackehuynh/blackjack-bot/internal/blackjack"
	"github.com/jackehuynh/blackjack-bot/internal/economy"
	"github.com/jackehuynh/blackjack-bot/internal/session"
)

var (
	// ErrWagerTooSmall is returned for wagers under the configured minimum.
	ErrWagerTooSmall = errors.New("wager is below the table minimum")

	// ErrInsufficientBalance is returned when a player cannot cover the wager.
	ErrInsufficientBalance = errors.New("balance does not cover the wager")
)

// GameFactory builds the round for a wager. Tests swap in stacked decks.
type GameFactory func(wager int64) *blackjack.Game

// Option configures a Service.
type Option func(*Service)

// WithGameFactory overrides how rounds are constructed.
func WithGameFactory(factory GameFactory) Option {
	return func(s *Service) { s.newGame = factory }
}

// Service runs wagered blackjack rounds for identified players. Round
// operations for the same player are serialized here: Discord runs each
// message handler in its own goroutine, so two quick commands from one
// player would otherwise reach the same Game concurrently.
type Service struct {
	registry *session.Registry
	store    *economy.Store
	logger   zerolog.Logger
	minWager int64
	newGame  GameFactory

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a round service over the given registry and ledger.
func NewService(registry *session.Registry, store *economy.Store, logger zerolog.Logger, minWager int64, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		store:    store,
		logger:   logger.With().Str("component", "table").Logger(),
		minWager: minWager,
		newGame:  blackjack.NewGame,
		locks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Round is the result of a round operation as frontends render it.
type Round struct {
	State blackjack.RoundState
	Wager int64
	// Payout is the amount credited back when the round ended with this
	// operation (winnings, a push refund, or a could-not-start refund).
	Payout int64
	// Balance is the player's balance after any settlement.
	Balance int64
}

// Start validates the wager, deducts it, and deals a new round. The
// round may already be terminal after the deal: a natural, or a deck
// too short to start, which refunds the wager.
func (s *Service) Start(playerID string, wager int64) (Round, error) {
	defer s.lockPlayer(playerID)()

	if wager < s.minWager {
		return Round{}, ErrWagerTooSmall
	}

	balance, err := s.store.Balance(playerID)
	if err != nil {
		return Round{}, fmt.Errorf("start round: %w", err)
	}
	if balance < wager {
		return Round{}, ErrInsufficientBalance
	}

	game := s.newGame(wager)
	if err := s.registry.Begin(playerID, game); err != nil {
		return Round{}, err
	}

	if _, err := s.store.Adjust(playerID, -wager); err != nil {
		s.registry.End(playerID)
		return Round{}, fmt.Errorf("deduct wager: %w", err)
	}

	s.logger.Info().Str("player", playerID).Int64("wager", wager).Msg("round started")
	return s.finish(playerID, game, game.Deal())
}

// Hit draws a card for the player's live round.
func (s *Service) Hit(playerID string) (Round, error) {
	defer s.lockPlayer(playerID)()

	game, err := s.registry.Get(playerID)
	if err != nil {
		return Round{}, err
	}
	return s.finish(playerID, game, game.Hit())
}

// Stand ends the player's turn and settles the round.
func (s *Service) Stand(playerID string) (Round, error) {
	defer s.lockPlayer(playerID)()

	game, err := s.registry.Get(playerID)
	if err != nil {
		return Round{}, err
	}
	return s.finish(playerID, game, game.Stand())
}

// Resume returns the current state of the player's live round without
// acting on it, for frontends that redraw state on demand.
func (s *Service) Resume(playerID string) (Round, error) {
	defer s.lockPlayer(playerID)()

	game, err := s.registry.Get(playerID)
	if err != nil {
		return Round{}, err
	}

	balance, err := s.store.Balance(playerID)
	if err != nil {
		return Round{}, fmt.Errorf("resume round: %w", err)
	}
	return Round{State: game.Snapshot(), Wager: game.Wager(), Balance: balance}, nil
}

// lockPlayer acquires the player's round lock and returns the unlock.
// One lock lives per player seen; the map is bounded by the player base.
func (s *Service) lockPlayer(playerID string) func() {
	s.mu.Lock()
	l, ok := s.locks[playerID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[playerID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Balance returns the player's balance.
func (s *Service) Balance(playerID string) (int64, error) {
	return s.store.Balance(playerID)
}

// Leaderboard returns the top balances.
func (s *Service) Leaderboard(limit int) ([]economy.LeaderboardEntry, error) {
	return s.store.TopBalances(limit)
}

// finish settles terminal rounds and annotates the state with the
// player's balance. Settlement runs exactly once because the registry
// entry is removed in the same step.
func (s *Service) finish(playerID string, game *blackjack.Game, state blackjack.RoundState) (Round, error) {
	round := Round{State: state, Wager: game.Wager()}

	if state.Over {
		if _, ok := s.registry.End(playerID); ok {
			payout := economy.Payout(game.Outcome(), game.Wager())
			if economy.Refundable(game.Outcome()) {
				payout = game.Wager()
			}
			if payout > 0 {
				if _, err := s.store.Adjust(playerID, payout); err != nil {
					return Round{}, fmt.Errorf("settle round: %w", err)
				}
			}
			round.Payout = payout

			s.logger.Info().
				Str("player", playerID).
				Str("outcome", game.Outcome().String()).
				Int64("wager", game.Wager()).
				Int64("payout", payout).
				Msg("round settled")
		}
	}

	balance, err := s.store.Balance(playerID)
	if err != nil {
		return Round{}, fmt.Errorf("read balance: %w", err)
	}
	round.Balance = balance
	return round, nil
}
