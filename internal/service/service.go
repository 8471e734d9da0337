// internal/service/service.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mkrench/ratscrew/internal/cache"
	"github.com/mkrench/ratscrew/internal/game"
	"github.com/mkrench/ratscrew/internal/lobby"
)

// GameService is the single authoritative entry point for every inbound
// action. For a given lobby id, join/start/play/slap are mutually exclusive
// in time: each lobby owns one mutex, held for the whole read-modify-write
// of an action, so the defining slap race resolves strictly in arrival
// order at that mutex. Unrelated lobbies proceed fully in parallel.
type GameService struct {
	logger *logrus.Logger

	lobbies *lobby.Store
	games   *game.Store

	mu     sync.Mutex
	tables map[string]*table
}

// table is the per-lobby serialization slot. It outlives the pre-game lobby
// session and is dropped together with the game.
type table struct {
	mu          sync.Mutex
	actionIndex int
}

func New(logger *logrus.Logger) *GameService {
	return &GameService{
		logger:  logger,
		lobbies: lobby.NewStore(),
		games:   game.NewStore(),
		tables:  make(map[string]*table),
	}
}

// tableFor returns the serialization slot for a lobby id, creating it on
// first use.
func (s *GameService) tableFor(lobbyID string) *table {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[lobbyID]
	if !ok {
		t = &table{}
		s.tables[lobbyID] = t
	}
	return t
}

// lookupTable returns the serialization slot for a lobby id without
// creating one. Only Join creates slots; every other action on an id with
// no slot has nothing to act on.
func (s *GameService) lookupTable(lobbyID string) (*table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[lobbyID]
	return t, ok
}

// dropTable removes a lobby's serialization slot. Called with the table
// mutex held by its last action; later actions simply get a fresh slot and
// fail on the missing lobby/game.
func (s *GameService) dropTable(lobbyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, lobbyID)
}

// Join seats a player in the lobby for lobbyID, creating the lobby if this
// is the first joiner (who becomes its creator). Re-joining is a no-op that
// keeps the seat. Once a game has started, only players seated in it may
// reconnect; anyone else is rejected.
func (s *GameService) Join(lobbyID, player string) Outcome {
	t := s.tableFor(lobbyID)
	t.mu.Lock()
	defer t.mu.Unlock()

	if g, exists := s.games.Get(lobbyID); exists {
		if g.PlayerByName(player) == nil {
			return reject(KindError, ErrGameInProgress)
		}
		s.logger.WithFields(logrus.Fields{
			"lobby":  lobbyID,
			"player": player,
		}).Info("player rejoined running game")
		return Outcome{
			Accepted:    true,
			Kind:        KindLobbyJoined,
			PlayerCount: len(g.Players),
			State:       s.snapshot(g),
		}
	}

	sess, exists := s.lobbies.Get(lobbyID)
	created := false
	if !exists {
		sess = lobby.NewSession(lobbyID, player)
		s.lobbies.Add(sess)
		created = true
	} else {
		sess.Join(player)
	}

	s.logger.WithFields(logrus.Fields{
		"lobby":  lobbyID,
		"player": player,
	}).Info("player joined lobby")

	return Outcome{
		Accepted:    true,
		Kind:        KindLobbyJoined,
		Created:     created,
		PlayerCount: sess.Len(),
	}
}

// Leave removes a player from the pre-game roster and prunes the lobby (and
// its serialization slot) when it empties. Once a game has started, leaving
// mutates nothing: disconnects never touch engine state, players are not
// pruned from the rotation.
func (s *GameService) Leave(lobbyID, player string) {
	t, ok := s.lookupTable(lobbyID)
	if !ok {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	sess, exists := s.lobbies.Get(lobbyID)
	if !exists {
		return
	}
	sess.Leave(player)
	if sess.Len() == 0 {
		s.lobbies.Delete(lobbyID)
		s.dropTable(lobbyID)
	}
	s.logger.WithFields(logrus.Fields{
		"lobby":  lobbyID,
		"player": player,
	}).Info("player left lobby")
}

// Start converts the lobby roster, in join order, into a dealt game. Only
// the creator may start, and at least two distinct players must have joined.
// On success the lobby entry is consumed atomically: from here on the game
// state is the only representation for this lobby id.
func (s *GameService) Start(lobbyID, requester string) Outcome {
	t, ok := s.lookupTable(lobbyID)
	if !ok {
		return reject(KindError, ErrNoSuchLobby)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := s.games.Get(lobbyID); exists {
		return reject(KindError, ErrGameInProgress)
	}
	sess, exists := s.lobbies.Get(lobbyID)
	if !exists {
		return reject(KindError, ErrNoSuchLobby)
	}
	if sess.Creator != requester {
		return reject(KindError, ErrNotCreator)
	}
	if sess.Len() < 2 {
		return reject(KindError, ErrNotEnoughPlayers)
	}

	names := sess.Players()
	g := game.NewERSGame(lobbyID, names)
	g.Start()
	s.games.Add(g)
	s.lobbies.Delete(lobbyID)

	s.logger.WithFields(logrus.Fields{
		"lobby":   lobbyID,
		"game_id": g.ID,
		"players": names,
	}).Info("game started")
	s.logAction(t, g, requester, "game_started", map[string]interface{}{"players": names})

	return Outcome{
		Accepted: true,
		Kind:     KindGameStarted,
		Players:  names,
		State:    s.snapshot(g),
	}
}

// PlayTurn plays one card (or skips an empty hand) for the lobby's current
// player. Out-of-turn attempts are rejected with KindInvalidTurn and no
// state change.
func (s *GameService) PlayTurn(lobbyID, player string) (out Outcome) {
	t, ok := s.lookupTable(lobbyID)
	if !ok {
		return reject(KindError, ErrNoSuchGame)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	defer s.recoverFault(lobbyID, &out)

	g, exists := s.games.Get(lobbyID)
	if !exists {
		return reject(KindError, ErrNoSuchGame)
	}
	if g.PlayerByName(player) == nil {
		return reject(KindError, ErrNotSeated)
	}
	if g.CurrentPlayer().Name != player {
		return reject(KindInvalidTurn, ErrNotYourTurn)
	}

	res := g.PlayTurn()
	out = Outcome{
		Accepted: true,
		Kind:     KindTurnPlayed,
		Card:     res.Card,
		Skipped:  res.Skipped,
		CanSlap:  g.CanSlap(),
		Winner:   res.Winner,
		State:    s.snapshot(g),
	}
	s.logAction(t, g, player, "card_played", map[string]interface{}{
		"skipped":    res.Skipped,
		"pile_count": len(g.Pile),
	})

	if res.Winner != "" {
		out.Kind = KindGameOver
		s.finishGame(t, g, res.Winner)
	}
	return out
}

// AttemptSlap resolves one slap for any seated player, in strict arrival
// order at the lobby mutex. The first attempt that finds a valid pile wins
// it; every later attempt in the same race sees the emptied pile, fails,
// and pays the one-card burn penalty if it can.
func (s *GameService) AttemptSlap(lobbyID, player string) (out Outcome) {
	t, ok := s.lookupTable(lobbyID)
	if !ok {
		return reject(KindError, ErrNoSuchGame)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	defer s.recoverFault(lobbyID, &out)

	g, exists := s.games.Get(lobbyID)
	if !exists {
		return reject(KindError, ErrNoSuchGame)
	}
	p := g.PlayerByName(player)
	if p == nil {
		return reject(KindError, ErrNotSeated)
	}

	success := g.AttemptSlap(p)
	winner := g.Winner()
	out = Outcome{
		Accepted:    true,
		Kind:        KindTurnPlayed,
		SlapSuccess: success,
		Winner:      winner,
		State:       s.snapshot(g),
	}
	s.logAction(t, g, player, "slap", map[string]interface{}{
		"success":    success,
		"pile_count": len(g.Pile),
	})

	if winner != "" {
		out.Kind = KindGameOver
		s.finishGame(t, g, winner)
	}
	return out
}

// Snapshot returns the current read-only state for a lobby's game, or nil
// if no game is in progress.
func (s *GameService) Snapshot(lobbyID string) *State {
	t, ok := s.lookupTable(lobbyID)
	if !ok {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	g, exists := s.games.Get(lobbyID)
	if !exists {
		return nil
	}
	return s.snapshot(g)
}

// CanSlap reports whether the lobby's pile is currently long enough to be
// contested.
func (s *GameService) CanSlap(lobbyID string) bool {
	t, ok := s.lookupTable(lobbyID)
	if !ok {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	g, exists := s.games.Get(lobbyID)
	return exists && g.CanSlap()
}

// LobbyExists reports whether a pre-game session is open for the id.
func (s *GameService) LobbyExists(lobbyID string) bool {
	_, ok := s.lobbies.Get(lobbyID)
	return ok
}

// GameExists reports whether a game is in progress for the id.
func (s *GameService) GameExists(lobbyID string) bool {
	_, ok := s.games.Get(lobbyID)
	return ok
}

// snapshot assumes the lobby's table mutex is held.
func (s *GameService) snapshot(g *game.ERSGame) *State {
	st := &State{
		CurrentPlayer: g.CurrentPlayer().Name,
		PileCount:     len(g.Pile),
		IsGameOver:    g.IsGameOver(),
		Winner:        g.Winner(),
	}
	for _, p := range g.Players {
		st.Players = append(st.Players, PlayerState{Name: p.Name, CardCount: p.CardCount()})
	}
	return st
}

// finishGame logs the result and destroys the completed game's state. The
// lobby id becomes free for a fresh lobby afterwards.
func (s *GameService) finishGame(t *table, g *game.ERSGame, winner string) {
	s.logger.WithFields(logrus.Fields{
		"lobby":   g.LobbyID,
		"game_id": g.ID,
		"winner":  winner,
	}).Info("game over")
	s.logAction(t, g, winner, "game_over", map[string]interface{}{"winner": winner})
	s.games.Delete(g.LobbyID)
	s.dropTable(g.LobbyID)
}

// recoverFault converts an engine panic into an error outcome at the
// orchestration boundary. Engine mutations validate before they mutate, so
// a recovered fault leaves the game exactly as it was before the call.
func (s *GameService) recoverFault(lobbyID string, out *Outcome) {
	if r := recover(); r != nil {
		s.logger.WithFields(logrus.Fields{
			"lobby": lobbyID,
			"panic": r,
		}).Error("engine fault recovered")
		*out = reject(KindError, fmt.Errorf("internal game error: %v", r))
	}
}

// logAction publishes one historian record to Redis asynchronously. Assumes
// the table mutex is held for the actionIndex increment.
func (s *GameService) logAction(t *table, g *game.ERSGame, actor, actionType string, payload map[string]interface{}) {
	t.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		LobbyID:       g.LobbyID,
		ActionIndex:   t.actionIndex,
		Actor:         actor,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func(rec cache.GameActionRecord) {
		if cache.Rdb == nil {
			// Redis is optional; without it there is simply no history.
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			s.logger.Warnf("failed to publish action %d for game %s: %v", rec.ActionIndex, rec.GameID, err)
		}
	}(record)
}
