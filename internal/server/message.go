package server

import (
	"encoding/json"
	"time"

	"github.com/jackehuynh/blackjack-bot/internal/blackjack"
	"github.com/jackehuynh/blackjack-bot/internal/economy"
)

// MessageType identifies a websocket message.
type MessageType string

const (
	// Client → Server
	MessageTypeAuth        MessageType = "auth"
	MessageTypeDeal        MessageType = "deal"
	MessageTypeHit         MessageType = "hit"
	MessageTypeStand       MessageType = "stand"
	MessageTypeBalance     MessageType = "balance"
	MessageTypeLeaderboard MessageType = "leaderboard"

	// Server → Client
	MessageTypeAuthOK           MessageType = "auth_ok"
	MessageTypeRoundState       MessageType = "round_state"
	MessageTypeBalanceState     MessageType = "balance_state"
	MessageTypeLeaderboardState MessageType = "leaderboard_state"
	MessageTypeError            MessageType = "error"
)

// Message is the websocket envelope shared by both directions.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	var dataBytes json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		dataBytes = b
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server payloads

type AuthData struct {
	PlayerName string `json:"playerName"`
}

type DealData struct {
	Wager int64 `json:"wager"`
}

type LeaderboardData struct {
	Limit int `json:"limit,omitempty"`
}

// Server → Client payloads

type AuthOKData struct {
	PlayerID string `json:"playerId"`
	Balance  int64  `json:"balance"`
}

// RoundStateData carries the engine's round view plus the ledger
// numbers a client renders next to it.
type RoundStateData struct {
	blackjack.RoundState
	Wager   int64 `json:"wager"`
	Payout  int64 `json:"payout,omitempty"`
	Balance int64 `json:"balance"`
}

type BalanceStateData struct {
	Balance int64 `json:"balance"`
}

type LeaderboardRow struct {
	PlayerID string `json:"playerId"`
	Balance  int64  `json:"balance"`
}

type LeaderboardStateData struct {
	Entries []LeaderboardRow `json:"entries"`
}

// LeaderboardRowsFromEntries converts ledger entries to wire rows.
func LeaderboardRowsFromEntries(entries []economy.LeaderboardEntry) []LeaderboardRow {
	rows := make([]LeaderboardRow, len(entries))
	for i, e := range entries {
		rows[i] = LeaderboardRow{PlayerID: e.UserID, Balance: e.Balance}
	}
	return rows
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned to clients.
const (
	ErrCodeNotAuthed        = "not_authenticated"
	ErrCodeBadRequest       = "bad_request"
	ErrCodeRoundInProgress  = "round_in_progress"
	ErrCodeNoActiveRound    = "no_active_round"
	ErrCodeWagerTooSmall    = "wager_too_small"
	ErrCodeInsufficientBank = "insufficient_balance"
	ErrCodeInternal         = "internal_error"
)
