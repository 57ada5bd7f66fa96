// Package session tracks at most one live blackjack round per player.
// The engine itself has no notion of players; frontends own a Registry
// and consult it before constructing a new round.
package session

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jackehuynh/blackjack-bot/internal/blackjack"
)

var (
	// ErrRoundInProgress is returned when a player with a live round
	// tries to start another one.
	ErrRoundInProgress = errors.New("player already has a round in progress")

	// ErrNoActiveRound is returned when hit/stand arrives for a player
	// with no live round.
	ErrNoActiveRound = errors.New("player has no active round")
)

// Registry maps player IDs to their single live round. It is safe for
// concurrent use; the Games it hands out are not, so each player's
// commands must be handled serially. The table service holds a
// per-player lock around every round operation for exactly that reason.
type Registry struct {
	logger zerolog.Logger
	mu     sync.RWMutex
	rounds map[string]*blackjack.Game
}

// NewRegistry constructs an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		logger: logger.With().Str("component", "session").Logger(),
		rounds: make(map[string]*blackjack.Game),
	}
}

// Begin registers a live round for the player. It fails with
// ErrRoundInProgress if one is already registered.
func (r *Registry) Begin(playerID string, game *blackjack.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rounds[playerID]; ok {
		return ErrRoundInProgress
	}

	r.rounds[playerID] = game
	r.logger.Debug().Str("player", playerID).Int64("wager", game.Wager()).Msg("round started")
	return nil
}

// Get returns the player's live round.
func (r *Registry) Get(playerID string) (*blackjack.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	game, ok := r.rounds[playerID]
	if !ok {
		return nil, ErrNoActiveRound
	}
	return game, nil
}

// End removes the player's round, returning it if one existed. Ending a
// player with no round is a no-op.
func (r *Registry) End(playerID string) (*blackjack.Game, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	game, ok := r.rounds[playerID]
	if !ok {
		return nil, false
	}

	delete(r.rounds, playerID)
	r.logger.Debug().Str("player", playerID).Msg("round ended")
	return game, true
}

// Count returns the number of live rounds.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rounds)
}
