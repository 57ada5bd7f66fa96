package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackehuynh/blackjack-bot/internal/blackjack"
	"github.com/jackehuynh/blackjack-bot/internal/deck"
	"github.com/jackehuynh/blackjack-bot/internal/economy"
	"github.com/jackehuynh/blackjack-bot/internal/session"
	"github.com/jackehuynh/blackjack-bot/internal/table"
)

// testClient is a websocket client speaking the server protocol.
type testClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func startTestServer(t *testing.T, cards ...deck.Card) (*testClient, *economy.Store) {
	t.Helper()

	store, err := economy.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	opts := []table.Option{}
	if len(cards) > 0 {
		opts = append(opts, table.WithGameFactory(func(wager int64) *blackjack.Game {
			return blackjack.NewGameWithDeck(wager, deck.NewStacked(cards...))
		}))
	}
	service := table.NewService(session.NewRegistry(zerolog.Nop()), store, zerolog.Nop(), 1, opts...)

	s := NewServer(service, log.New(io.Discard))
	go s.run()
	t.Cleanup(func() { _ = s.Stop() })

	httpServer := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	t.Cleanup(httpServer.Close)

	wsURL := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &testClient{t: t, conn: conn}, store
}

func (c *testClient) send(messageType MessageType, data interface{}) {
	c.t.Helper()
	msg, err := NewMessage(messageType, data)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

func (c *testClient) recv() *Message {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(c.t, c.conn.ReadJSON(&msg))
	return &msg
}

func (c *testClient) recvRound() RoundStateData {
	c.t.Helper()
	msg := c.recv()
	require.Equal(c.t, MessageTypeRoundState, msg.Type, "unexpected message: %s", msg.Data)
	var data RoundStateData
	require.NoError(c.t, json.Unmarshal(msg.Data, &data))
	return data
}

func (c *testClient) auth(name string) AuthOKData {
	c.t.Helper()
	c.send(MessageTypeAuth, AuthData{PlayerName: name})
	msg := c.recv()
	require.Equal(c.t, MessageTypeAuthOK, msg.Type, "unexpected message: %s", msg.Data)
	var data AuthOKData
	require.NoError(c.t, json.Unmarshal(msg.Data, &data))
	return data
}

func TestCommandsRequireAuth(t *testing.T) {
	client, _ := startTestServer(t)

	client.send(MessageTypeDeal, DealData{Wager: 10})
	msg := client.recv()
	require.Equal(t, MessageTypeError, msg.Type)

	var errData ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &errData))
	assert.Equal(t, ErrCodeNotAuthed, errData.Code)
}

func TestAuthReportsBalance(t *testing.T) {
	client, store := startTestServer(t)
	_, err := store.Adjust("alice", 500)
	require.NoError(t, err)

	authOK := client.auth("alice")
	assert.Equal(t, "alice", authOK.PlayerID)
	assert.Equal(t, int64(500), authOK.Balance)
}

func TestFullRoundOverWebsocket(t *testing.T) {
	client, store := startTestServer(t,
		deck.NewCard(deck.Spades, deck.King),    // player
		deck.NewCard(deck.Hearts, deck.Queen),   // dealer
		deck.NewCard(deck.Clubs, deck.Nine),     // player 19
		deck.NewCard(deck.Diamonds, deck.Seven), // dealer 17
	)
	_, err := store.Adjust("alice", 100)
	require.NoError(t, err)
	client.auth("alice")

	client.send(MessageTypeDeal, DealData{Wager: 40})
	round := client.recvRound()
	require.False(t, round.Over)
	assert.True(t, round.Dealer.Hidden)
	assert.Equal(t, 19, round.Player.Value)
	assert.Equal(t, int64(60), round.Balance)

	client.send(MessageTypeStand, nil)
	round = client.recvRound()
	require.True(t, round.Over)
	assert.Equal(t, "player_wins", round.Outcome)
	assert.False(t, round.Dealer.Hidden)
	assert.Equal(t, int64(80), round.Payout)
	assert.Equal(t, int64(140), round.Balance)
}

func TestDealWithoutFundsIsRejected(t *testing.T) {
	client, _ := startTestServer(t)
	client.auth("brokebob")

	client.send(MessageTypeDeal, DealData{Wager: 10})
	msg := client.recv()
	require.Equal(t, MessageTypeError, msg.Type)

	var errData ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &errData))
	assert.Equal(t, ErrCodeInsufficientBank, errData.Code)
}

func TestHitWithoutRoundReportsCode(t *testing.T) {
	client, store := startTestServer(t)
	_, err := store.Adjust("alice", 100)
	require.NoError(t, err)
	client.auth("alice")

	client.send(MessageTypeHit, nil)
	msg := client.recv()
	require.Equal(t, MessageTypeError, msg.Type)

	var errData ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &errData))
	assert.Equal(t, ErrCodeNoActiveRound, errData.Code)
}

func TestLeaderboardOverWebsocket(t *testing.T) {
	client, store := startTestServer(t)
	for id, amount := range map[string]int64{"alice": 300, "bob": 100} {
		_, err := store.Adjust(id, amount)
		require.NoError(t, err)
	}
	client.auth("alice")

	client.send(MessageTypeLeaderboard, LeaderboardData{Limit: 5})
	msg := client.recv()
	require.Equal(t, MessageTypeLeaderboardState, msg.Type)

	var data LeaderboardStateData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	require.Len(t, data.Entries, 2)
	assert.Equal(t, "alice", data.Entries[0].PlayerID)
}
