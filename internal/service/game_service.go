package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"tab_server/internal/domain"
	"tab_server/internal/game"
	"tab_server/internal/logger"
	"tab_server/internal/store"
)

const rankingTopN = 10

// GameService owns the full lifecycle of every game: matchmaking into a
// waiting slot, the roll→select→move→capture turn cycle, timeout-driven
// forced termination and ranking bookkeeping.
//
// A single mutex serializes every game-mutating operation, the Go rendition
// of the original's cooperative event loop: handlers are fast, synchronous
// and non-blocking, and a handler always runs to completion before another
// may observe its game. The in-memory maps are the source of truth;
// persistence through the record store is write-behind.
type GameService struct {
	mu sync.Mutex

	store    store.Store
	timers   *TimerRegistry
	users    map[string]*domain.User
	games    map[string]*domain.Game
	rankings map[string]*domain.Ranking

	waitTimeout time.Duration
	turnTimeout time.Duration

	// roll is swappable so tests can script dice outcomes
	roll func() domain.Dice

	onUpdate func(*domain.Game)
}

func NewGameService(st store.Store, waitTimeout, turnTimeout time.Duration) *GameService {
	return &GameService{
		store:       st,
		timers:      NewTimerRegistry(),
		users:       make(map[string]*domain.User),
		games:       make(map[string]*domain.Game),
		rankings:    make(map[string]*domain.Ranking),
		waitTimeout: waitTimeout,
		turnTimeout: turnTimeout,
		roll:        game.RollSticks,
	}
}

// SetUpdateHook registers the outbound push callback. It is invoked with a
// snapshot after every successful mutation.
func (s *GameService) SetUpdateHook(fn func(*domain.Game)) {
	s.onUpdate = fn
}

// Open loads users, games and rankings from the record store and re-arms
// timers for games that were live when the process last stopped.
func (s *GameService) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.All(ctx, store.KindUsers)
	if err != nil {
		return err
	}
	for id, raw := range users {
		var u domain.User
		if err := json.Unmarshal(raw, &u); err != nil {
			logger.Warn("skipping unreadable user record", "id", id, "error", err)
			continue
		}
		s.users[u.Nick] = &u
	}

	games, err := s.store.All(ctx, store.KindGames)
	if err != nil {
		return err
	}
	for id, raw := range games {
		var g domain.Game
		if err := json.Unmarshal(raw, &g); err != nil {
			logger.Warn("skipping unreadable game record", "id", id, "error", err)
			continue
		}
		s.games[g.ID] = &g

		switch g.Status {
		case domain.StatusWaiting:
			s.armWaiting(g.ID)
		case domain.StatusPlaying:
			s.armTurn(&g)
		}
	}

	rankings, err := s.store.All(ctx, store.KindRankings)
	if err != nil {
		return err
	}
	for id, raw := range rankings {
		var r domain.Ranking
		if err := json.Unmarshal(raw, &r); err != nil {
			logger.Warn("skipping unreadable ranking record", "id", id, "error", err)
			continue
		}
		s.rankings[id] = &r
	}

	logger.Info("game service opened",
		"users", len(s.users), "games", len(s.games), "rankings", len(s.rankings))
	return nil
}

// Close cancels all timers. Pending store writes are drained by store.Close.
func (s *GameService) Close() {
	s.timers.Stop()
}

// Register creates a user on first sight; an existing nick must present the
// matching password (registration doubles as credential verification).
func (s *GameService) Register(ctx context.Context, nick, password string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if nick == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if u, ok := s.users[nick]; ok {
		if !CheckPassword(password, u.PasswordHash) {
			return nil, domain.ErrInvalidCredentials
		}
		u.LastLogin = time.Now().UTC()
		s.saveUser(ctx, u)
		return u, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &domain.User{
		Nick:         nick,
		PasswordHash: hash,
		CreatedAt:    now,
		LastLogin:    now,
	}
	s.users[nick] = u
	s.saveUser(ctx, u)

	logger.Info("user registered", "nick", nick)
	return u, nil
}

// Login verifies credentials and refreshes LastLogin.
func (s *GameService) Login(ctx context.Context, nick, password string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.verify(nick, password)
	if err != nil {
		return nil, err
	}
	u.LastLogin = time.Now().UTC()
	s.saveUser(ctx, u)
	return u, nil
}

// GetUser returns the profile for nick, or nil.
func (s *GameService) GetUser(nick string) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[nick]
	if !ok {
		return nil
	}
	c := *u
	return &c
}

// Join pairs nick into a waiting game of the same (group,size), or opens a
// new waiting game. Returns the game id either way.
func (s *GameService) Join(ctx context.Context, nick, password string, size, group int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.verify(nick, password); err != nil {
		return "", err
	}
	if size < 3 || size%2 == 0 {
		return "", domain.ErrInvalidSize
	}

	for _, g := range s.games {
		if g.Status != domain.StatusWaiting || g.Group != group || g.Size != size || len(g.Players) != 1 {
			continue
		}
		if _, alreadyIn := g.Players[nick]; alreadyIn {
			// rejoining one's own waiting slot is idempotent
			return g.ID, nil
		}

		host := ""
		for n := range g.Players {
			host = n
		}
		g.Players[host] = domain.ColorBlue
		g.Players[nick] = domain.ColorRed
		game.InitBoard(g)
		g.Status = domain.StatusPlaying
		g.Turn = host
		g.Initial = host
		g.Step = domain.StepFrom
		g.UpdatedAt = time.Now().UTC()

		s.timers.DisarmWaiting(g.ID)
		s.armTurn(g)
		s.saveGame(ctx, g)
		s.publish(g)

		gamesStarted.Inc()
		logger.Info("game paired", "game", g.ID, "blue", host, "red", nick)
		return g.ID, nil
	}

	now := time.Now().UTC()
	g := &domain.Game{
		ID:        NewGameID(),
		Group:     group,
		Size:      size,
		Players:   map[string]domain.Color{nick: domain.ColorNone},
		Status:    domain.StatusWaiting,
		Step:      domain.StepFrom,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.games[g.ID] = g

	s.armWaiting(g.ID)
	s.saveGame(ctx, g)
	s.publish(g)

	logger.Info("game opened, waiting for opponent", "game", g.ID, "nick", nick, "size", size, "group", group)
	return g.ID, nil
}

// Leave removes nick from a waiting game, or forfeits a playing one in the
// opponent's favor.
func (s *GameService) Leave(ctx context.Context, nick, password, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.verify(nick, password); err != nil {
		return err
	}

	g, ok := s.games[gameID]
	if !ok {
		return domain.ErrGameNotFound
	}
	if _, isPlayer := g.Players[nick]; !isPlayer {
		return domain.ErrGameNotFound
	}

	switch g.Status {
	case domain.StatusWaiting:
		delete(g.Players, nick)
		s.timers.DisarmAll(g.ID)
		if len(g.Players) == 0 {
			s.dropGame(ctx, g.ID)
		} else {
			g.UpdatedAt = time.Now().UTC()
			s.saveGame(ctx, g)
		}
		return nil

	case domain.StatusPlaying:
		s.finishGame(ctx, g, g.Opponent(nick), "leave")
		return nil

	default:
		return domain.ErrGameNotInProgress
	}
}

// Roll produces the current player's stick roll. A roll that yields no legal
// move either skips the player outright, or flags a mandatory pass when the
// roll granted a repeat.
func (s *GameService) Roll(ctx context.Context, nick, password, gameID string) (*domain.Dice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.verify(nick, password); err != nil {
		return nil, err
	}
	g, ok := s.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	if g.Status != domain.StatusPlaying {
		return nil, domain.ErrGameNotInProgress
	}
	if g.Turn != nick {
		return nil, domain.ErrNotYourTurn
	}
	if g.Dice != nil && g.Dice.KeepPlaying {
		return nil, domain.ErrRepeatRollPending
	}

	d := s.roll()
	g.Dice = &d
	g.Step = domain.StepFrom
	g.Selected = nil
	g.PendingMove = nil
	g.MustPass = ""
	g.UpdatedAt = time.Now().UTC()

	if len(game.PossibleMoves(g, nick, d.Value)) == 0 {
		if d.KeepPlaying {
			// the repeat is mandatory but unplayable: the client must pass
			g.MustPass = nick
		} else {
			game.NextTurn(g)
		}
	}

	s.armTurn(g)
	s.saveGame(ctx, g)
	s.publish(g)

	rollsTotal.Inc()
	return &d, nil
}

// Pass advances the turn when the current dice value leaves no legal move.
// Passing with moves available is rejected.
func (s *GameService) Pass(ctx context.Context, nick, password, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.verify(nick, password); err != nil {
		return err
	}
	g, ok := s.games[gameID]
	if !ok {
		return domain.ErrGameNotFound
	}
	if g.Status != domain.StatusPlaying {
		return domain.ErrGameNotInProgress
	}
	if g.Turn != nick {
		return domain.ErrNotYourTurn
	}
	if g.Dice == nil {
		return domain.ErrMustRollFirst
	}
	if g.MustPass != nick && len(game.PossibleMoves(g, nick, g.Dice.Value)) > 0 {
		return domain.ErrCannotPass
	}

	game.NextTurn(g)
	g.UpdatedAt = time.Now().UTC()

	s.armTurn(g)
	s.saveGame(ctx, g)
	s.publish(g)
	return nil
}

// Notify submits one cell selection for the in-progress move. On success the
// win condition is checked and the game finalized if met.
func (s *GameService) Notify(ctx context.Context, nick, password, gameID string, cell int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.verify(nick, password); err != nil {
		return err
	}
	g, ok := s.games[gameID]
	if !ok {
		return domain.ErrGameNotFound
	}
	if g.Status != domain.StatusPlaying {
		return domain.ErrGameNotInProgress
	}
	if g.Turn != nick {
		return domain.ErrNotYourTurn
	}
	if cell < 0 || cell >= g.BoardLen() {
		return domain.ErrInvalidCell
	}
	if g.Dice == nil {
		return domain.ErrMustRollFirst
	}

	if err := game.HandleCell(g, nick, cell); err != nil {
		return err
	}
	g.UpdatedAt = time.Now().UTC()

	// a mover wins by racing home or by clearing the opponent off the board
	if game.HasWon(g, nick) || game.PieceCount(g, g.Opponent(nick)) == 0 {
		s.finishGame(ctx, g, nick, "win")
		return nil
	}

	s.armTurn(g)
	s.saveGame(ctx, g)
	s.publish(g)
	return nil
}

// GetRanking returns the top entries for a (group,size) board, best first.
func (s *GameService) GetRanking(group, size int) []domain.RankEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rankings[domain.RankingKey(group, size)]
	if !ok {
		return nil
	}
	return r.Top(rankingTopN)
}

// GetGame returns a snapshot of the game for a credentialed player.
func (s *GameService) GetGame(ctx context.Context, nick, password, gameID string) (*domain.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.verify(nick, password); err != nil {
		return nil, err
	}
	return s.snapshot(gameID, nick)
}

// Snapshot returns a game snapshot for an already-authenticated nick (the
// ws push endpoint authenticates by token instead of password).
func (s *GameService) Snapshot(gameID, nick string) (*domain.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot(gameID, nick)
}

func (s *GameService) snapshot(gameID, nick string) (*domain.Game, error) {
	g, ok := s.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	if _, isPlayer := g.Players[nick]; !isPlayer {
		return nil, domain.ErrGameNotFound
	}
	return g.Clone(), nil
}

// verify re-checks credentials. Every public operation goes through here;
// there is no bypass value, internal callers use the unexported paths.
func (s *GameService) verify(nick, password string) (*domain.User, error) {
	u, ok := s.users[nick]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if !CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

// finishGame finalizes a playing game: winner, stats, ranking, timers.
// Caller holds the service mutex.
func (s *GameService) finishGame(ctx context.Context, g *domain.Game, winner, cause string) {
	loser := g.Opponent(winner)

	g.Status = domain.StatusFinished
	g.Winner = winner
	g.Dice = nil
	g.Selected = nil
	g.PendingMove = nil
	g.MustPass = ""
	g.UpdatedAt = time.Now().UTC()

	if u, ok := s.users[winner]; ok {
		u.GamesPlayed++
		u.Victories++
		s.saveUser(ctx, u)
	}
	if u, ok := s.users[loser]; ok {
		u.GamesPlayed++
		s.saveUser(ctx, u)
	}

	key := domain.RankingKey(g.Group, g.Size)
	r, ok := s.rankings[key]
	if !ok {
		r = domain.NewRanking(g.Group, g.Size)
		s.rankings[key] = r
	}
	r.Record(winner, true)
	r.Record(loser, false)
	s.saveRanking(ctx, key, r)

	s.timers.DisarmAll(g.ID)
	s.saveGame(ctx, g)
	s.publish(g)

	gamesFinished.WithLabelValues(cause).Inc()
	logger.Info("game finished", "game", g.ID, "winner", winner, "cause", cause)
}

// armWaiting schedules deletion of a still-waiting game.
func (s *GameService) armWaiting(gameID string) {
	s.timers.ArmWaiting(gameID, s.waitTimeout, func() {
		s.expireWaiting(gameID)
	})
}

// armTurn (re)schedules the idle forfeit, bound to whoever holds the turn
// right now. Caller holds the mutex. A timer that fires after the turn has
// legitimately moved on finds the binding stale and does nothing.
func (s *GameService) armTurn(g *domain.Game) {
	nick := g.Turn
	s.timers.ArmTurn(g.ID, s.turnTimeout, func() {
		s.expireTurn(g.ID, nick)
	})
}

func (s *GameService) expireWaiting(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok || g.Status != domain.StatusWaiting {
		return
	}
	logger.Info("waiting game expired, deleting", "game", gameID)
	s.timers.DisarmAll(gameID)
	s.dropGame(context.Background(), gameID)
}

// expireTurn forfeits nick if it still holds the turn of a live game. The
// nick was captured when the timer was armed: if the turn has since moved
// on (the timer fired concurrently with a legitimate action), the binding
// is stale and the forfeit is dropped.
func (s *GameService) expireTurn(gameID, nick string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok || g.Status != domain.StatusPlaying || g.Turn != nick {
		return
	}

	logger.Info("turn timer fired, forfeiting idle player", "game", gameID, "nick", nick)
	s.finishGame(context.Background(), g, g.Opponent(nick), "timeout")
}

// dropGame removes a game from memory and the store. Caller holds the mutex.
func (s *GameService) dropGame(ctx context.Context, gameID string) {
	delete(s.games, gameID)
	if err := s.store.Delete(ctx, store.KindGames, gameID); err != nil {
		logger.Error("game delete failed", "game", gameID, "error", err)
	}
}

func (s *GameService) saveGame(ctx context.Context, g *domain.Game) {
	if err := s.store.Set(ctx, store.KindGames, g.ID, g); err != nil {
		logger.Error("game persist failed", "game", g.ID, "error", err)
	}
}

func (s *GameService) saveUser(ctx context.Context, u *domain.User) {
	if err := s.store.Set(ctx, store.KindUsers, u.Nick, u); err != nil {
		logger.Error("user persist failed", "nick", u.Nick, "error", err)
	}
}

func (s *GameService) saveRanking(ctx context.Context, key string, r *domain.Ranking) {
	if err := s.store.Set(ctx, store.KindRankings, key, r); err != nil {
		logger.Error("ranking persist failed", "key", key, "error", err)
	}
}

func (s *GameService) publish(g *domain.Game) {
	if s.onUpdate != nil {
		s.onUpdate(g.Clone())
	}
}
