package app

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	"fakeout/internal/domain"
)

// ClientConnection represents a connected client the session can push
// events to.
type ClientConnection interface {
	Send(message interface{}) error
	Close() error
}

// Session drives one room. Player actions, timer callbacks and
// connectivity changes are all serialized through a single mutex, so the
// room is never mutated from two triggers simultaneously. Internal phase
// handlers assume the lock is held.
type Session struct {
	room *domain.Room
	mu   sync.Mutex

	clients   map[string]ClientConnection
	clientsMu sync.RWMutex

	sched    Scheduler
	timer    TimerHandle
	timerGen int

	art      ArtSource
	notifier WinnerNotifier
	rng      *rand.Rand
	starting bool

	adminSecret string
	onEmpty     func(code string)

	events chan *domain.RoomEvent
	done   chan struct{}
	logger *slog.Logger
}

// NewSession creates a session for a freshly created room and starts its
// broadcast loop.
func NewSession(room *domain.Room, sched Scheduler, art ArtSource, notifier WinnerNotifier, rng *rand.Rand, adminSecret string, onEmpty func(code string), logger *slog.Logger) *Session {
	s := &Session{
		room:        room,
		clients:     make(map[string]ClientConnection),
		sched:       sched,
		art:         art,
		notifier:    notifier,
		rng:         rng,
		adminSecret: adminSecret,
		onEmpty:     onEmpty,
		events:      make(chan *domain.RoomEvent, 100),
		done:        make(chan struct{}),
		logger:      logger.With("roomCode", room.Code),
	}

	go s.eventLoop()

	return s
}

// Code returns the room code.
func (s *Session) Code() string {
	return s.room.Code
}

// PlayerCount returns the current roster size.
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.room.Players)
}

// PublicInfo returns the lobby-listing row for this room, computed from
// live state.
func (s *Session) PublicInfo() domain.PublicRoomInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.PublicRoomInfo{
		Code:        s.room.Code,
		PlayerCount: len(s.room.Players),
		IsPublic:    s.room.IsPublic,
		OwnerName:   s.room.OwnerName(),
		Phase:       s.room.State.Phase,
	}
}

// IsPublic reports whether the room shows up in the public listing.
func (s *Session) IsPublic() bool {
	return s.room.IsPublic
}

// RegisterClient binds a connection to a player id.
func (s *Session) RegisterClient(playerID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[playerID] = client
}

// UnregisterClient removes a connection binding.
func (s *Session) UnregisterClient(playerID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, playerID)
}

// Join appends a player to the roster. A joiner arriving unready while
// the lobby countdown runs cancels it.
func (s *Session) Join(playerID, username string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.room.AddPlayer(playerID, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if s.room.OwnerID == "" {
		s.room.OwnerID = playerID
	}

	s.broadcastPlayerList()
	s.checkLobbyCountdown()
	return player, nil
}

// Snapshot builds the full resync payload for one player.
func (s *Session) Snapshot(playerID string) domain.RoomJoinedPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.RoomJoinedPayload{
		RoomCode: s.room.Code,
		PlayerID: playerID,
		IsOwner:  s.room.OwnerID == playerID,
		Players:  s.room.PlayerInfoList(),
		State:    s.statePayload(),
	}
}

// ToggleReady flips a player's lobby readiness.
func (s *Session) ToggleReady(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State.Phase != domain.PhaseLobby {
		return domain.ErrInvalidPhase
	}
	player := s.room.FindPlayer(playerID)
	if player == nil {
		return domain.ErrPlayerNotFound
	}

	player.IsReady = !player.IsReady
	s.broadcastPlayerList()
	s.checkLobbyCountdown()
	return nil
}

// StartGame lets the owner skip the ready dance: everyone online is
// marked ready and the countdown arms if the roster allows it.
func (s *Session) StartGame(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State.Phase != domain.PhaseLobby {
		return domain.ErrInvalidPhase
	}
	if s.room.OwnerID != playerID {
		return domain.ErrNotOwner
	}
	if s.room.ConnectedCount() < domain.MinPlayers {
		return domain.ErrNotEnoughPlayers
	}

	for _, p := range s.room.Players {
		if !p.IsOffline {
			p.IsReady = true
		}
	}
	s.broadcastPlayerList()
	s.checkLobbyCountdown()
	return nil
}

// checkLobbyCountdown arms the 4-second start countdown when every online
// player is ready, and cancels it the moment readiness breaks.
func (s *Session) checkLobbyCountdown() {
	if s.room.State.Phase != domain.PhaseLobby {
		return
	}

	if s.room.AllConnectedReady() {
		if !s.room.State.CountdownActive {
			s.room.State.CountdownActive = true
			s.armTimer(domain.LobbyCountdownSeconds, s.beginMatch)
			s.broadcastState()
		}
		return
	}

	if s.room.State.CountdownActive {
		s.room.State.CountdownActive = false
		s.armTimer(0, nil)
		s.broadcastState()
	}
}

// beginMatch pre-fetches one art pair per configured round, then rolls
// into round one. The sequential pre-fetch is the only operation allowed
// to block the room's event stream; clients see a "starting" state while
// it runs.
func (s *Session) beginMatch() {
	if s.room.State.Phase != domain.PhaseLobby || !s.room.State.CountdownActive {
		return
	}
	s.room.State.CountdownActive = false

	s.starting = true
	s.broadcastState()

	s.room.State.ArtPairs = PrefetchPairs(context.Background(), s.art, s.rng, s.room.Rounds)
	s.starting = false

	s.nextRound()
}

// nextRound performs the round rollover: purge offline players, abort to
// lobby below the minimum, otherwise clear per-round state, auto-ready
// everyone, deal roles and start writing.
func (s *Session) nextRound() {
	s.room.PurgeOffline()
	if len(s.room.Players) < domain.MinPlayers {
		s.logger.Info("not enough players, aborting match")
		s.resetMatch()
		return
	}

	s.room.State.CurrentRound++
	for _, p := range s.room.Players {
		p.ResetRound()
		// Between rounds of the same match players stay ready; only a
		// full match reset requires an explicit re-ready.
		p.IsReady = true
	}

	pair, ok := s.room.CurrentPair()
	if !ok {
		// Defensive path: the cache should always cover the round.
		pair = PlaceholderPair(RandomTheme(s.rng), s.room.State.CurrentRound)
		for len(s.room.State.ArtPairs) < s.room.State.CurrentRound {
			s.room.State.ArtPairs = append(s.room.State.ArtPairs, pair)
		}
		s.logger.Warn("art cache miss, substituted placeholder", "round", s.room.State.CurrentRound)
	}

	s.room.AssignRoles(s.rng)

	for _, p := range s.room.Players {
		image := pair.Innocent
		if p.Role.IsImpostor() {
			image = pair.Impostor
		}
		s.queueEvent(domain.NewPlayerEvent(domain.EventRoundInit, s.room.Code, p.ID, &domain.RoundInitPayload{
			Round:    s.room.State.CurrentRound,
			Role:     p.Role,
			ImageURL: image,
		}))
	}

	s.broadcastPlayerList()
	s.startWriting()
}

// startWriting enters WRITING with a fresh random turn order over all
// present players.
func (s *Session) startWriting() {
	s.room.State.Phase = domain.PhaseWriting
	s.room.State.TurnOrder = s.room.ShuffledTurnOrder(s.rng)
	s.room.State.TurnIndex = 0
	for _, p := range s.room.Players {
		p.Word = nil
	}
	s.startTurn()
}

// startTurn seats the next present writer, skipping removed or offline
// players without arming their timer. An exhausted order moves the room
// to DISCUSSING.
func (s *Session) startTurn() {
	for {
		writerID := s.room.CurrentWriterID()
		if writerID == "" {
			s.startDiscussing()
			return
		}
		writer := s.room.FindPlayer(writerID)
		if writer == nil || writer.IsOffline {
			s.room.State.TurnIndex++
			continue
		}
		s.armTimer(domain.TurnSeconds, s.advanceTurn)
		s.broadcastState()
		return
	}
}

func (s *Session) advanceTurn() {
	if s.room.State.Phase != domain.PhaseWriting {
		return
	}
	s.room.State.TurnIndex++
	s.startTurn()
}

// SubmitWord records the seated writer's clue and advances the turn.
// Out-of-turn or out-of-phase submissions are silently ignored: clients
// race their own timers, and dropping the stray message keeps state
// converged.
func (s *Session) SubmitWord(playerID, word string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State.Phase != domain.PhaseWriting {
		return
	}
	if s.room.CurrentWriterID() != playerID {
		return
	}
	player := s.room.FindPlayer(playerID)
	if player == nil || player.Word != nil {
		return
	}

	word = strings.TrimSpace(word)
	player.Word = &word

	s.advanceTurn()
}

func (s *Session) startDiscussing() {
	s.room.State.Phase = domain.PhaseDiscussing
	for _, p := range s.room.Players {
		p.HasSkippedDiscussion = false
	}
	s.armTimer(domain.DiscussSeconds, s.startVoting)
	s.broadcastState()
}

// SkipDiscussion records a skip signal; once every active player has
// signalled, voting starts early.
func (s *Session) SkipDiscussion(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State.Phase != domain.PhaseDiscussing {
		return domain.ErrInvalidPhase
	}
	player := s.room.FindPlayer(playerID)
	if player == nil {
		return domain.ErrPlayerNotFound
	}

	player.HasSkippedDiscussion = true
	if s.room.AllActiveDid(func(p *domain.Player) bool { return p.HasSkippedDiscussion }) {
		s.startVoting()
		return nil
	}
	s.broadcastPlayerList()
	return nil
}

func (s *Session) startVoting() {
	if s.room.State.Phase != domain.PhaseDiscussing {
		return
	}
	s.room.State.Phase = domain.PhaseVoting
	s.armTimer(domain.VoteSeconds, s.finishVoting)
	s.broadcastState()
}

// SubmitVote casts a vote for the suspected impostor. Once every active
// player has voted the tally runs immediately.
func (s *Session) SubmitVote(playerID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State.Phase != domain.PhaseVoting {
		return domain.ErrInvalidPhase
	}
	player := s.room.FindPlayer(playerID)
	if player == nil {
		return domain.ErrPlayerNotFound
	}
	if player.Vote != nil {
		return domain.ErrAlreadyVoted
	}
	if s.room.FindPlayer(targetID) == nil {
		return domain.ErrInvalidTargetID
	}

	player.Vote = &targetID

	if s.room.AllActiveDid(func(p *domain.Player) bool { return p.Vote != nil }) {
		s.finishVoting()
		return nil
	}
	s.broadcastPlayerList()
	return nil
}

// finishVoting tallies, applies score deltas and enters RESULTS with the
// round-scoped reveal.
func (s *Session) finishVoting() {
	if s.room.State.Phase != domain.PhaseVoting {
		return
	}

	outcome := domain.ResolveRound(s.room)
	s.room.State.Phase = domain.PhaseResults

	s.queueEvent(domain.NewEvent(domain.EventGameOver, s.room.Code, &domain.GameOverPayload{
		Winner:        outcome.Winner,
		Message:       outcome.Message,
		ImpostorNames: outcome.ImpostorNames,
		Pair:          outcome.Pair,
		Players:       s.room.PlayerInfoList(),
	}))

	s.armTimer(domain.ResultsSeconds, s.finishResults)
	s.broadcastState()
}

// finishResults either rolls the next round or, with rounds exhausted,
// awards the match winners and enters MATCH_END.
func (s *Session) finishResults() {
	if s.room.State.Phase != domain.PhaseResults {
		return
	}

	if s.room.State.CurrentRound < s.room.Rounds {
		s.nextRound()
		return
	}

	s.awardWinners()
	s.startMatchEnd()
}

// awardWinners notifies the reward webhook for every player tied at the
// maximum score. The winnerAwardSent guard makes this at-most-once per
// match even if MATCH_END is somehow re-entered.
func (s *Session) awardWinners() {
	if s.room.State.WinnerAwardSent {
		return
	}
	s.room.State.WinnerAwardSent = true

	winners := domain.MatchWinners(s.room)
	for _, username := range winners {
		go func(name string) {
			if err := s.notifier.NotifyWinner(context.Background(), name); err != nil {
				s.logger.Error("winner reward notification failed", "username", name, "error", err)
			}
		}(username)
	}

	s.queueEvent(domain.NewEvent(domain.EventMatchEnd, s.room.Code, &domain.MatchEndPayload{
		Winners: winners,
		Players: s.room.PlayerInfoList(),
	}))
}

func (s *Session) startMatchEnd() {
	s.room.State.Phase = domain.PhaseMatchEnd
	for _, p := range s.room.Players {
		p.HasSkippedMatchEnd = false
	}
	s.armTimer(domain.MatchEndSeconds, s.resetMatch)
	s.broadcastState()
}

// SkipMatchEnd records a skip signal during MATCH_END; full quorum resets
// the match early.
func (s *Session) SkipMatchEnd(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.State.Phase != domain.PhaseMatchEnd {
		return domain.ErrInvalidPhase
	}
	player := s.room.FindPlayer(playerID)
	if player == nil {
		return domain.ErrPlayerNotFound
	}

	player.HasSkippedMatchEnd = true
	if s.room.AllActiveDid(func(p *domain.Player) bool { return p.HasSkippedMatchEnd }) {
		s.resetMatch()
		return nil
	}
	s.broadcastPlayerList()
	return nil
}

// resetMatch returns the room to an idle lobby. Also the landing spot for
// every insufficient-player repair: a room degrades here, never wedges.
func (s *Session) resetMatch() {
	s.room.ResetMatch()
	s.armTimer(0, nil)
	s.broadcastPlayerList()
	s.broadcastState()
}

// Kick removes a player at the owner's request. If the target was the
// seated writer the turn advances immediately so the room never waits on
// a removed player.
func (s *Session) Kick(requesterID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.OwnerID != requesterID {
		return domain.ErrNotOwner
	}
	if requesterID == targetID {
		return domain.ErrCannotKickSelf
	}
	if s.room.FindPlayer(targetID) == nil {
		return domain.ErrPlayerNotFound
	}

	wasWriter := s.room.State.Phase == domain.PhaseWriting && s.room.CurrentWriterID() == targetID

	s.queueEvent(domain.NewPlayerEvent(domain.EventKicked, s.room.Code, targetID, nil))
	s.room.RemovePlayer(targetID)
	s.broadcastPlayerList()

	if wasWriter {
		s.startTurn()
	}
	s.repairAfterDeparture()
	return nil
}

// Disconnect handles a dropped connection: lobby players leave the roster
// entirely, mid-match players are marked offline and retained until the
// next rollover. The room is destroyed once nobody is left connected.
func (s *Session) Disconnect(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.FindPlayer(playerID) == nil {
		return
	}

	wasWriter := s.room.State.Phase == domain.PhaseWriting && s.room.CurrentWriterID() == playerID

	if s.room.State.Phase == domain.PhaseLobby {
		s.room.RemovePlayer(playerID)
	} else {
		s.room.MarkOffline(playerID)
	}

	if s.room.ConnectedCount() == 0 {
		s.logger.Info("last player disconnected, destroying room")
		if s.onEmpty != nil {
			go s.onEmpty(s.room.Code)
		}
		return
	}

	s.broadcastPlayerList()

	if wasWriter {
		s.startTurn()
	}
	s.repairAfterDeparture()
}

// repairAfterDeparture re-runs the quorum checks a departure can tip:
// lobby countdown readiness, discussion skip, vote completion. A voting
// room down to one active player resolves immediately rather than
// waiting out the timer.
func (s *Session) repairAfterDeparture() {
	switch s.room.State.Phase {
	case domain.PhaseLobby:
		s.checkLobbyCountdown()
	case domain.PhaseDiscussing:
		if s.room.AllActiveDid(func(p *domain.Player) bool { return p.HasSkippedDiscussion }) {
			s.startVoting()
		}
	case domain.PhaseVoting:
		if len(s.room.ActivePlayers()) <= 1 ||
			s.room.AllActiveDid(func(p *domain.Player) bool { return p.Vote != nil }) {
			s.finishVoting()
		}
	case domain.PhaseMatchEnd:
		if s.room.AllActiveDid(func(p *domain.Player) bool { return p.HasSkippedMatchEnd }) {
			s.resetMatch()
		}
	}
}

// Chat relays a chat message to the room, unrestricted by phase.
func (s *Session) Chat(playerID, message string) {
	s.mu.Lock()
	player := s.room.FindPlayer(playerID)
	s.mu.Unlock()
	if player == nil {
		return
	}

	s.queueEvent(domain.NewEvent(domain.EventChatMessage, s.room.Code, &domain.ChatPayload{
		Username: player.Username,
		Message:  message,
	}))
}

// AdminSkipPhase fires the current phase's timeout handler, bypassing the
// normal gating, given the correct shared secret.
func (s *Session) AdminSkipPhase(secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.adminSecret == "" || secret != s.adminSecret {
		return domain.ErrBadAdminSecret
	}

	switch s.room.State.Phase {
	case domain.PhaseLobby:
		if s.room.State.CountdownActive {
			s.beginMatch()
		}
	case domain.PhaseWriting:
		s.advanceTurn()
	case domain.PhaseDiscussing:
		s.startVoting()
	case domain.PhaseVoting:
		s.finishVoting()
	case domain.PhaseResults:
		s.finishResults()
	case domain.PhaseMatchEnd:
		s.resetMatch()
	}
	return nil
}

// armTimer replaces the room's countdown: the previous handle is stopped
// first, so at most one timer is ever live for the room. Zero seconds
// means "no timer". Caller must hold the lock.
func (s *Session) armTimer(seconds int, onExpire func()) {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerGen++
	s.room.State.Timer = seconds

	if seconds <= 0 || onExpire == nil {
		return
	}

	gen := s.timerGen
	s.timer = s.sched.Start(seconds,
		func(remaining int) { s.handleTick(gen, remaining) },
		func() { s.handleExpiry(gen, onExpire) },
	)
}

func (s *Session) handleTick(gen, remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.timerGen {
		return
	}
	s.room.State.Timer = remaining
	s.queueEvent(domain.NewEvent(domain.EventTimerUpdate, s.room.Code, &domain.TimerPayload{Seconds: remaining}))
}

func (s *Session) handleExpiry(gen int, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.timerGen {
		return
	}
	s.timer = nil
	s.room.State.Timer = 0
	fn()
}

func (s *Session) statePayload() domain.StatePayload {
	state := domain.StatePayload{
		Phase:           s.room.State.Phase,
		Timer:           s.room.State.Timer,
		CurrentRound:    s.room.State.CurrentRound,
		TotalRounds:     s.room.Rounds,
		CountdownActive: s.room.State.CountdownActive,
		Starting:        s.starting,
		Words:           make([]domain.WordEntry, 0, len(s.room.State.TurnOrder)),
	}

	if s.room.State.Phase == domain.PhaseWriting {
		if writer := s.room.FindPlayer(s.room.CurrentWriterID()); writer != nil {
			state.WriterID = writer.ID
			state.WriterName = writer.Username
		}
	}

	for _, id := range s.room.State.TurnOrder {
		if p := s.room.FindPlayer(id); p != nil && p.Word != nil {
			state.Words = append(state.Words, domain.WordEntry{
				PlayerID: p.ID,
				Username: p.Username,
				Word:     *p.Word,
			})
		}
	}
	return state
}

func (s *Session) broadcastState() {
	s.queueEvent(domain.NewEvent(domain.EventGameStateUpdate, s.room.Code, s.statePayload()))
}

func (s *Session) broadcastPlayerList() {
	s.queueEvent(domain.NewEvent(domain.EventPlayerListUpdate, s.room.Code, &domain.PlayerListPayload{
		Players: s.room.PlayerInfoList(),
		OwnerID: s.room.OwnerID,
	}))
}

func (s *Session) queueEvent(event *domain.RoomEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

func (s *Session) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.deliver(event)
		}
	}
}

func (s *Session) deliver(event *domain.RoomEvent) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	if event.PlayerID != "" {
		if client, ok := s.clients[event.PlayerID]; ok {
			if err := client.Send(event); err != nil {
				s.logger.Debug("send failed", "playerID", event.PlayerID, "error", err)
			}
		}
		return
	}

	for playerID, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug("send failed", "playerID", playerID, "error", err)
		}
	}
}

// Close shuts the session down: timer stopped, event loop ended, clients
// closed.
func (s *Session) Close() {
	select {
	case <-s.done:
		return
	default:
		close(s.done)
	}

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerGen++
	s.mu.Unlock()

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clients = make(map[string]ClientConnection)
	s.clientsMu.Unlock()
}
