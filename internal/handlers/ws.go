package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/mkrench/ratscrew/internal/auth"
	"github.com/mkrench/ratscrew/internal/middleware"
	"github.com/mkrench/ratscrew/internal/service"
	"github.com/mkrench/ratscrew/internal/ws"
)

const outBufferSize = 16

// clientMessage is the envelope every inbound websocket frame must carry.
type clientMessage struct {
	Type string `json:"type"`
}

type event map[string]interface{}

// ensureGuestSession validates the auth_token cookie and issues a fresh
// guest token when it is missing, expired, or bound to another player name.
func (s *Server) ensureGuestSession(w http.ResponseWriter, r *http.Request, player string) {
	if cookie, err := r.Cookie("auth_token"); err == nil {
		if subject, err := auth.VerifySessionToken(cookie.Value); err == nil && subject == player {
			return
		}
	}
	token, err := auth.CreateSessionToken(player)
	if err != nil {
		s.Logger.Warnf("failed to create session token for %s: %v", player, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// HandleWS upgrades /ws/{lobby_id}/{player_name}, seats the player in the
// lobby, and runs the read loop until the socket closes.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	lobbyID := r.PathValue("lobby_id")
	player := r.PathValue("player_name")
	if lobbyID == "" || player == "" {
		http.Error(w, "lobby id and player name are required", http.StatusBadRequest)
		return
	}

	s.ensureGuestSession(w, r, player)

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:       []string{"ers"},
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.Logger.Warnf("websocket accept failed for lobby %s: %v", lobbyID, err)
		return
	}
	defer c.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn := s.Registry.Connect(lobbyID, player, outBufferSize, cancel)
	middleware.LogWebSocketConnect(s.Logger, lobbyID, player)

	out := s.Service.Join(lobbyID, player)
	if !out.Accepted {
		s.writeDirect(ctx, c, event{"type": "error", "message": out.Err.Error()})
		s.Registry.Disconnect(lobbyID, player, conn)
		c.Close(websocket.StatusPolicyViolation, out.Err.Error())
		return
	}

	go s.writePump(ctx, c, conn)

	if out.Created {
		conn.Write(mustMarshal(event{"type": "lobby_created"}))
	}
	s.Registry.Broadcast(lobbyID, event{
		"type":         "player_joined",
		"player":       player,
		"player_count": out.PlayerCount,
	}, "")
	// A seated player rejoining a running game gets caught up immediately.
	if out.State != nil {
		conn.Write(mustMarshal(event{"type": "game_state", "state": out.State}))
	}

	readErr := s.readLoop(ctx, c, lobbyID, player, conn)

	// A stale disconnect means the player already reconnected on a fresh
	// socket; in that case they have not left at all.
	if s.Registry.Disconnect(lobbyID, player, conn) {
		s.Service.Leave(lobbyID, player)
		s.Registry.Broadcast(lobbyID, event{"type": "player_left", "player": player}, "")
	}
	middleware.LogWebSocketDisconnect(s.Logger, lobbyID, player, readErr)
}

// writePump drains the connection's outbound queue onto the socket.
// Each write gets its own deadline so one stuck client cannot wedge the pump.
func (s *Server) writePump(ctx context.Context, c *websocket.Conn, conn *ws.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-conn.OutChan:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := c.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				s.Logger.Debugf("write to %s in lobby %s failed: %v", conn.Player, conn.Lobby, err)
				return
			}
		}
	}
}

func (s *Server) readLoop(ctx context.Context, c *websocket.Conn, lobbyID, player string, conn *ws.Conn) error {
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			return err
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			conn.Write(mustMarshal(event{"type": "error", "message": "malformed message"}))
			continue
		}

		switch msg.Type {
		case "join_lobby", "create_lobby":
			// Seating already happened at connect time; re-join is idempotent
			// and acks with the authoritative roster size.
			if out := s.Service.Join(lobbyID, player); out.Accepted {
				conn.Write(mustMarshal(event{
					"type":         "player_joined",
					"player":       player,
					"player_count": out.PlayerCount,
				}))
			} else {
				conn.Write(mustMarshal(event{"type": "error", "message": out.Err.Error()}))
			}
		case "start_game":
			s.handleStart(lobbyID, player, conn)
		case "play":
			s.handlePlay(lobbyID, player, conn)
		case "slap":
			s.handleSlap(lobbyID, player, conn)
		case "state":
			if state := s.Service.Snapshot(lobbyID); state != nil {
				conn.Write(mustMarshal(event{"type": "game_state", "state": state}))
			} else {
				conn.Write(mustMarshal(event{"type": "error", "message": "no game in progress"}))
			}
		default:
			conn.Write(mustMarshal(event{"type": "error", "message": "unknown message type: " + msg.Type}))
		}
	}
}

func (s *Server) handleStart(lobbyID, player string, conn *ws.Conn) {
	out := s.Service.Start(lobbyID, player)
	if !out.Accepted {
		conn.Write(mustMarshal(event{"type": "error", "message": out.Err.Error()}))
		return
	}
	s.Registry.Broadcast(lobbyID, event{"type": "game_started", "players": out.Players}, "")
	s.Registry.Broadcast(lobbyID, event{"type": "game_state", "state": out.State}, "")
}

func (s *Server) handlePlay(lobbyID, player string, conn *ws.Conn) {
	out := s.Service.PlayTurn(lobbyID, player)
	if !out.Accepted {
		conn.Write(mustMarshal(event{"type": "error", "message": out.Err.Error()}))
		return
	}

	played := event{"type": "card_played", "player": player}
	if out.Card != nil {
		played["card"] = out.Card
	}
	s.Registry.Broadcast(lobbyID, played, "")

	if out.CanSlap {
		s.Registry.Broadcast(lobbyID, event{"type": "slap_opportunity"}, "")
	}
	if out.Kind == service.KindGameOver {
		s.Registry.Broadcast(lobbyID, event{"type": "game_over", "winner": out.Winner}, "")
	}
	s.Registry.Broadcast(lobbyID, event{"type": "game_state", "state": out.State}, "")
}

func (s *Server) handleSlap(lobbyID, player string, conn *ws.Conn) {
	out := s.Service.AttemptSlap(lobbyID, player)
	if !out.Accepted {
		conn.Write(mustMarshal(event{"type": "error", "message": out.Err.Error()}))
		return
	}

	s.Registry.Broadcast(lobbyID, event{
		"type":    "slap",
		"player":  player,
		"success": out.SlapSuccess,
		"time":    time.Now().UnixMilli(),
	}, "")

	if out.Kind == service.KindGameOver {
		s.Registry.Broadcast(lobbyID, event{"type": "game_over", "winner": out.Winner}, "")
	}
	s.Registry.Broadcast(lobbyID, event{"type": "game_state", "state": out.State}, "")
}

// writeDirect sends one frame synchronously, bypassing the pump. Used only
// before the pump starts.
func (s *Server) writeDirect(ctx context.Context, c *websocket.Conn, e event) {
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	data := mustMarshal(e)
	if err := c.Write(writeCtx, websocket.MessageText, data); err != nil {
		s.Logger.Debugf("direct write failed: %v", err)
	}
}

func mustMarshal(e event) []byte {
	data, err := json.Marshal(e)
	if err != nil {
		// event maps only ever hold marshalable values
		panic(err)
	}
	return data
}
