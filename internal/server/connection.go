package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/jackehuynh/blackjack-bot/internal/session"
	"github.com/jackehuynh/blackjack-bot/internal/table"
)

// ErrConnectionClosed is returned when sending on a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Connection wraps one websocket client. A connection speaks for at
// most one player, set by the auth message; round commands are rejected
// until then.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	playerID  string
	logger    *log.Logger
	service   *table.Service
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	onClose   func(*Connection)
}

// NewConnection creates a connection wrapper around an upgraded socket.
func NewConnection(conn *websocket.Conn, logger *log.Logger, service *table.Service, onClose func(*Connection)) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:    conn,
		send:    make(chan *Message, 64),
		logger:  logger.WithPrefix("conn"),
		service: service,
		ctx:     ctx,
		cancel:  cancel,
		onClose: onClose,
	}
}

// Start begins the read and write pumps.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close tears the connection down once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// Send queues a message for the client.
func (c *Connection) Send(msg *Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Send buffer full, dropping connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// PlayerID returns the authenticated player, or "" before auth.
func (c *Connection) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

func (c *Connection) setPlayerID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = id
}

func (c *Connection) readPump() {
	defer func() {
		if c.onClose != nil {
			c.onClose(c)
		}
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("Read error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("Write error", "error", err)
				_ = c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage dispatches one client message. All round-level
// conditions travel back as round_state or error payloads; nothing
// here closes the connection.
func (c *Connection) handleMessage(msg *Message) {
	switch msg.Type {
	case MessageTypeAuth:
		c.handleAuth(msg)
	case MessageTypeDeal:
		c.handleDeal(msg)
	case MessageTypeHit:
		c.withPlayer(func(playerID string) {
			c.sendRound(c.service.Hit(playerID))
		})
	case MessageTypeStand:
		c.withPlayer(func(playerID string) {
			c.sendRound(c.service.Stand(playerID))
		})
	case MessageTypeBalance:
		c.handleBalance()
	case MessageTypeLeaderboard:
		c.handleLeaderboard(msg)
	default:
		c.sendError(ErrCodeBadRequest, "unknown message type "+string(msg.Type))
	}
}

func (c *Connection) handleAuth(msg *Message) {
	var data AuthData
	if err := json.Unmarshal(msg.Data, &data); err != nil || data.PlayerName == "" {
		c.sendError(ErrCodeBadRequest, "auth requires a playerName")
		return
	}

	c.setPlayerID(data.PlayerName)
	balance, err := c.service.Balance(data.PlayerName)
	if err != nil {
		c.sendError(ErrCodeInternal, "could not load balance")
		return
	}

	c.logger.Info("Player authenticated", "player", data.PlayerName)
	c.reply(MessageTypeAuthOK, AuthOKData{PlayerID: data.PlayerName, Balance: balance})
}

func (c *Connection) handleDeal(msg *Message) {
	c.withPlayer(func(playerID string) {
		var data DealData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(ErrCodeBadRequest, "deal requires a wager")
			return
		}
		c.sendRound(c.service.Start(playerID, data.Wager))
	})
}

func (c *Connection) handleBalance() {
	c.withPlayer(func(playerID string) {
		balance, err := c.service.Balance(playerID)
		if err != nil {
			c.sendError(ErrCodeInternal, "could not load balance")
			return
		}
		c.reply(MessageTypeBalanceState, BalanceStateData{Balance: balance})
	})
}

func (c *Connection) handleLeaderboard(msg *Message) {
	var data LeaderboardData
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(ErrCodeBadRequest, "bad leaderboard request")
			return
		}
	}
	if data.Limit <= 0 || data.Limit > 50 {
		data.Limit = 10
	}

	entries, err := c.service.Leaderboard(data.Limit)
	if err != nil {
		c.sendError(ErrCodeInternal, "could not load leaderboard")
		return
	}
	c.reply(MessageTypeLeaderboardState, LeaderboardStateData{Entries: LeaderboardRowsFromEntries(entries)})
}

func (c *Connection) withPlayer(fn func(playerID string)) {
	playerID := c.PlayerID()
	if playerID == "" {
		c.sendError(ErrCodeNotAuthed, "authenticate first")
		return
	}
	fn(playerID)
}

func (c *Connection) sendRound(round table.Round, err error) {
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}

	c.reply(MessageTypeRoundState, RoundStateData{
		RoundState: round.State,
		Wager:      round.Wager,
		Payout:     round.Payout,
		Balance:    round.Balance,
	})
}

func (c *Connection) reply(messageType MessageType, data interface{}) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		c.logger.Error("Failed to build message", "type", messageType, "error", err)
		return
	}
	_ = c.Send(msg)
}

func (c *Connection) sendError(code, message string) {
	c.reply(MessageTypeError, ErrorData{Code: code, Message: message})
}

// errorCode maps service errors to wire codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, session.ErrRoundInProgress):
		return ErrCodeRoundInProgress
	case errors.Is(err, session.ErrNoActiveRound):
		return ErrCodeNoActiveRound
	case errors.Is(err, table.ErrWagerTooSmall):
		return ErrCodeWagerTooSmall
	case errors.Is(err, table.ErrInsufficientBalance):
		return ErrCodeInsufficientBank
	default:
		return ErrCodeInternal
	}
}
