package room

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/virusthegame/backend/internal/engine"
	"github.com/virusthegame/backend/internal/protocol"
)

// ResultSink receives the final outcome when a room's game finishes.
type ResultSink interface {
	RecordResult(ctx context.Context, roomCode string, winnerID int, scores map[int]int) error
}

type Msg interface{ isRoomMsg() }

// Connect registers a player endpoint. Joining the game itself happens on
// the player's connection envelope; until then the endpoint only receives.
type Connect struct {
	PlayerID int
	Name     string
	Outbox   chan protocol.Envelope
}

// Disconnect retires one player endpoint. Outbox identifies which connection
// is going away; a reconnect replaces the registered outbox, and the stale
// connection's disconnect must not touch the replacement.
type Disconnect struct {
	PlayerID int
	Outbox   chan protocol.Envelope
}

// FromPlayer is one parsed envelope relayed from a player endpoint.
type FromPlayer struct {
	PlayerID int
	Env      protocol.Envelope
}

// AttachHost binds the room's single host endpoint. The room lives exactly
// as long as its host: DetachHost tears the room down.
type AttachHost struct{ Outbox chan protocol.Envelope }

type DetachHost struct{}

// FromHost carries a message from the host UI.
type FromHost struct{ Env protocol.Envelope }

// GetView reflects internal state for tests without data races.
type GetView struct{ Reply chan View }

type Shutdown struct{}

func (Connect) isRoomMsg()    {}
func (Disconnect) isRoomMsg() {}
func (FromPlayer) isRoomMsg() {}
func (AttachHost) isRoomMsg() {}
func (DetachHost) isRoomMsg() {}
func (FromHost) isRoomMsg()   {}
func (GetView) isRoomMsg()    {}
func (Shutdown) isRoomMsg()   {}

type View struct {
	Phase      engine.Phase
	NumPlayers int
	NumClients int
	Current    int
	Winner     int
	CardCount  int
}

// Room is the per-room actor. Its loop goroutine exclusively owns the Game
// and the endpoint registry; all access is by message into the inbox, so at
// most one attempt is ever resolved at a time.
type Room struct {
	code     string
	inbox    chan Msg
	game     *engine.Game
	clients  map[int]chan protocol.Envelope
	names    map[int]string
	host     chan protocol.Envelope
	sink     ResultSink
	log      *zap.Logger
	onClose  func()
	recorded bool
	ctx      context.Context
	cancel   context.CancelFunc
}

// New starts a room actor. onClose runs once when the room shuts down, after
// client channels are closed; the hub uses it to drop its registry entry.
func New(parent context.Context, code string, sink ResultSink, log *zap.Logger, onClose func()) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		code:    code,
		inbox:   make(chan Msg, 64),
		game:    engine.NewGame(),
		clients: make(map[int]chan protocol.Envelope),
		names:   make(map[int]string),
		sink:    sink,
		log:     log.With(zap.String("room", code)),
		onClose: onClose,
		ctx:     ctx,
		cancel:  cancel,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Connect:
				r.handleConnect(msg)

			case Disconnect:
				r.handleDisconnect(msg)

			case FromPlayer:
				r.handleEnvelope(msg.PlayerID, msg.Env)

			case AttachHost:
				r.host = msg.Outbox

			case DetachHost:
				r.log.Info("host detached, tearing room down")
				r.shutdown()
				return

			case FromHost:
				r.handleHost(msg.Env)

			case GetView:
				msg.Reply <- View{
					Phase:      r.game.Phase,
					NumPlayers: len(r.game.Players),
					NumClients: len(r.clients),
					Current:    r.game.CurrentPlayer(),
					Winner:     r.game.Winner,
					CardCount:  r.game.CardCount(),
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	if r.host != nil {
		close(r.host)
		r.host = nil
	}
	r.cancel()
	if r.onClose != nil {
		r.onClose()
		r.onClose = nil
	}
}

func (r *Room) handleConnect(msg Connect) {
	if old, ok := r.clients[msg.PlayerID]; ok {
		close(old)
	}
	r.clients[msg.PlayerID] = msg.Outbox
	r.names[msg.PlayerID] = msg.Name

	// Reconnect of a seated player: full-state resync, no re-join.
	if _, seated := r.game.Players[msg.PlayerID]; seated {
		r.pushState(msg.PlayerID, "")
	}
}

func (r *Room) handleDisconnect(msg Disconnect) {
	ch, ok := r.clients[msg.PlayerID]
	if ok && msg.Outbox != nil && ch != msg.Outbox {
		// A reconnect already replaced this endpoint; the stale
		// connection's teardown has nothing left to do.
		return
	}
	if ok {
		close(ch)
		delete(r.clients, msg.PlayerID)
	}
	delete(r.names, msg.PlayerID)

	// Seats are only released before the game starts; a started game keeps
	// the seat for reconnection.
	if r.game.Phase == engine.PhaseLobby {
		if err := r.game.RemovePlayer(msg.PlayerID); err == nil {
			r.pushStateAll()
		}
	}
}

// handleEnvelope processes one relayed player envelope. Validation,
// not-found and protocol errors answer only the originating player;
// invariant violations are fatal to the room.
func (r *Room) handleEnvelope(playerID int, env protocol.Envelope) {
	switch env.Header {
	case protocol.HeaderConnection:
		r.handleJoin(playerID, env)

	case protocol.HeaderCardPlay:
		r.handleCardPlay(playerID, env)

	case protocol.HeaderTurnEnd:
		if err := r.game.AdvanceTurn(playerID); err != nil {
			r.sendAttempt(playerID, false, err.Error(), env.RequestID)
			return
		}
		r.sendAttempt(playerID, true, "", env.RequestID)
		r.pushStateAll()

	case protocol.HeaderAllStacks:
		r.send(playerID, protocol.Build(protocol.SenderLobby, protocol.HeaderOthersState,
			othersState(r.game, playerID), env.RequestID))

	default:
		r.sendAttempt(playerID, false, "unknown header: "+env.Header, env.RequestID)
	}
}

func (r *Room) handleJoin(playerID int, env protocol.Envelope) {
	name := r.names[playerID]
	if n, ok := env.Data["player_name"].(string); ok && n != "" {
		name = n
	}

	if _, seated := r.game.Players[playerID]; seated {
		r.sendAttempt(playerID, true, "reconnected", env.RequestID)
		r.pushState(playerID, env.RequestID)
		return
	}

	if err := r.game.AddPlayer(playerID, name); err != nil {
		r.sendAttempt(playerID, false, err.Error(), env.RequestID)
		return
	}
	r.sendAttempt(playerID, true, "connected", env.RequestID)

	if r.startIfReady() {
		r.pushStateAll()
	} else {
		r.pushState(playerID, env.RequestID)
	}
}

// startIfReady starts the game once a second player is seated.
func (r *Room) startIfReady() bool {
	if r.game.Phase != engine.PhaseLobby || len(r.game.Players) < 2 {
		return false
	}
	if err := r.game.Start(); err != nil {
		r.log.Error("start failed", zap.Error(err))
		return false
	}
	r.log.Info("game started", zap.Int("players", len(r.game.Players)))
	return true
}

func (r *Room) handleCardPlay(playerID int, env protocol.Envelope) {
	player, ok := r.game.Players[playerID]
	if !ok {
		r.sendAttempt(playerID, false, "not seated in this game", env.RequestID)
		return
	}

	intent, err := protocol.CardPlayIntent(env.Data)
	if err != nil {
		r.sendAttempt(playerID, false, err.Error(), env.RequestID)
		return
	}
	attempt, err := player.BuildAttempt(intent)
	if err != nil {
		r.sendAttempt(playerID, false, err.Error(), env.RequestID)
		return
	}

	if err := r.game.Resolve(playerID, attempt); err != nil {
		if errors.Is(err, engine.ErrInvariant) {
			// Corrupted room state: tear down rather than keep serving it.
			r.log.Error("invariant violation, tearing room down", zap.Error(err))
			r.shutdown()
			return
		}
		r.sendAttempt(playerID, false, err.Error(), env.RequestID)
		return
	}

	r.sendAttempt(playerID, true, "", env.RequestID)
	r.pushStateAll()
	r.recordIfFinished()
}

func (r *Room) handleHost(env protocol.Envelope) {
	action, _ := env.Data["action"].(string)
	switch action {
	case "start_game":
		if err := r.game.Start(); err != nil {
			r.sendHost(protocol.BuildAttempt(false, err.Error(), env.RequestID))
			return
		}
		r.sendHost(protocol.BuildAttempt(true, "", env.RequestID))
		r.pushStateAll()
	default:
		r.sendHost(protocol.BuildAttempt(false, "unknown host action: "+action, env.RequestID))
	}
}

func (r *Room) recordIfFinished() {
	if r.recorded || r.game.Phase != engine.PhaseFinished {
		return
	}
	r.recorded = true
	r.log.Info("game finished", zap.Int("winner", r.game.Winner), zap.Int("turns", r.game.Turns))
	if r.sink == nil {
		return
	}
	if err := r.sink.RecordResult(r.ctx, r.code, r.game.Winner, r.game.Scores()); err != nil {
		r.log.Error("recording result failed", zap.Error(err))
	}
}

// ---- outbound ----

func (r *Room) sendAttempt(playerID int, status bool, message, requestID string) {
	r.send(playerID, protocol.BuildAttempt(status, message, requestID))
}

// send delivers one envelope to a player endpoint. A missing endpoint is a
// defined non-fatal outcome; a full outbox drops the client, as a slow
// consumer must not stall the room.
func (r *Room) send(playerID int, env protocol.Envelope) {
	ch, ok := r.clients[playerID]
	if !ok {
		r.log.Debug("dropping envelope for disconnected player",
			zap.Int("player", playerID), zap.String("header", env.Header))
		return
	}
	select {
	case ch <- env:
	default:
		r.log.Warn("dropping slow client", zap.Int("player", playerID))
		close(ch)
		delete(r.clients, playerID)
	}
}

func (r *Room) sendHost(env protocol.Envelope) {
	if r.host == nil {
		return
	}
	select {
	case r.host <- env:
	default:
		r.log.Warn("host outbox full, dropping envelope", zap.String("header", env.Header))
	}
}

// pushState sends a player their four view envelopes.
func (r *Room) pushState(playerID int, requestID string) {
	player, ok := r.game.Players[playerID]
	if !ok {
		return
	}
	r.send(playerID, protocol.Build(protocol.SenderLobby, protocol.HeaderHandState, handState(player), requestID))
	r.send(playerID, protocol.Build(protocol.SenderLobby, protocol.HeaderStacksState, stacksState(player), requestID))
	r.send(playerID, protocol.Build(protocol.SenderLobby, protocol.HeaderOthersState, othersState(r.game, playerID), requestID))
	r.send(playerID, protocol.Build(protocol.SenderLobby, protocol.HeaderTurnState, turnState(r.game, playerID), requestID))
}

func (r *Room) pushStateAll() {
	for _, id := range r.game.Order {
		r.pushState(id, "")
	}
	// The host view is every seat's board.
	r.sendHost(protocol.Build(protocol.SenderLobby, protocol.HeaderOthersState, othersState(r.game, 0), ""))
}
