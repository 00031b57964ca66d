package app

import (
	"context"
	"fmt"
	"log"
	"sync"

	"live-quiz-service/internal/domain"
)

// TopPlayers is the size of the final leaderboard.
const TopPlayers = 3

const defaultMailboxSize = 64

// PlayerStore abstracts where players are persisted (memory, file, Redis, SQL).
type PlayerStore interface {
	Load(ctx context.Context) ([]domain.Player, error)
	Save(ctx context.Context, players []domain.Player) error
}

// Broadcaster delivers a frame to every connected participant, sender included.
type Broadcaster interface {
	Broadcast(msg Outbound)
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithVerbose logs every dispatched event and every dropped one.
func WithVerbose(verbose bool) Option {
	return func(g *Gateway) { g.verbose = verbose }
}

// WithMailboxSize sets how many submitted events may wait for dispatch.
func WithMailboxSize(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.events = make(chan Inbound, n)
		}
	}
}

// Gateway applies inbound events to the session one at a time and broadcasts
// the outcome. It is the only writer of the Session and the player list.
type Gateway struct {
	mu      sync.Mutex
	session *Session
	players []domain.Player
	store   PlayerStore
	out     Broadcaster
	verbose bool

	events chan Inbound
	done   chan struct{}
}

// NewGateway loads the persisted players and returns a gateway ready to Run.
func NewGateway(ctx context.Context, session *Session, store PlayerStore, out Broadcaster, opts ...Option) (*Gateway, error) {
	players, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	g := &Gateway{
		session: session,
		players: players,
		store:   store,
		out:     out,
		events:  make(chan Inbound, defaultMailboxSize),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Run drains the mailbox until ctx is canceled. It must be called once.
func (g *Gateway) Run(ctx context.Context) error {
	defer close(g.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-g.events:
			g.Dispatch(ctx, ev)
		}
	}
}

// Submit queues an event for Run. It blocks while the mailbox is full.
func (g *Gateway) Submit(ctx context.Context, ev Inbound) error {
	select {
	case g.events <- ev:
		return nil
	case <-g.done:
		return domain.ErrGatewayClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch handles one event to completion, persistence included.
func (g *Gateway) Dispatch(ctx context.Context, ev Inbound) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.verbose {
		log.Printf("gateway: %T from %s (phase %s)", ev, ev.Sender(), g.session.Phase())
	}

	switch e := ev.(type) {
	case JoinEvent:
		g.handleJoin(ctx, e)
	case StartEvent:
		g.handleStart()
	case AnswerEvent:
		g.handleAnswer(e)
	case AdvanceEvent:
		g.handleAdvance(ctx)
	case ResetEvent:
		g.handleReset(ctx)
	case DisconnectEvent:
		g.handleDisconnect(ctx, e)
	}
}

// Players returns a copy of the current player list in join order.
func (g *Gateway) Players() []domain.Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]domain.Player, len(g.players))
	copy(out, g.players)
	return out
}

// Phase reports the session phase.
func (g *Gateway) Phase() domain.Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.Phase()
}

func (g *Gateway) handleJoin(ctx context.Context, e JoinEvent) {
	if g.indexOf(e.ConnID) >= 0 {
		return
	}
	g.players = append(g.players, domain.Player{
		ID:     e.ConnID,
		Name:   e.Name,
		Avatar: e.Avatar,
	})
	g.persist(ctx)
	g.emitPlayers()
}

func (g *Gateway) handleStart() {
	if !g.session.Start() {
		g.dropped("start outside idle phase")
		return
	}
	question, _ := g.session.Current()
	g.emitRoundStarted(g.session.Index(), question)
}

func (g *Gateway) handleAnswer(e AnswerEvent) {
	i := g.indexOf(e.ConnID)
	if i < 0 {
		g.dropped("answer from unregistered connection " + e.ConnID)
		return
	}
	if e.Name != g.players[i].Name {
		g.dropped("answer under another name from " + e.ConnID)
		return
	}
	if e.Round != AnyRound && e.Round != g.session.Index() {
		g.dropped("answer for stale round from " + e.ConnID)
		return
	}
	if !g.session.RecordAnswer(e.ConnID, g.players[i].Name, e.Answer) {
		g.dropped("late answer from " + e.ConnID)
	}
}

func (g *Gateway) handleAdvance(ctx context.Context) {
	question, pending, ok := g.session.Resolve()
	if !ok {
		g.dropped("advance without active round")
		return
	}
	players, result := ResolveRound(g.players, pending, question)
	g.players = players
	if result.TotalCorrect > 0 {
		g.persist(ctx)
		g.emitPlayers()
	}
	g.emitRoundStats(result)

	if g.session.Phase() == domain.PhaseActive {
		next, _ := g.session.Current()
		g.emitNextQuestion(g.session.Index(), next)
		return
	}
	g.emitFinished(RankTop(g.players, TopPlayers))
}

func (g *Gateway) handleReset(ctx context.Context) {
	g.players = nil
	g.persist(ctx)
	g.session.Reset()
	g.emitResetAck()
	g.emitPlayers()
}

func (g *Gateway) handleDisconnect(ctx context.Context, e DisconnectEvent) {
	i := g.indexOf(e.ConnID)
	if i < 0 {
		return
	}
	g.players = append(g.players[:i:i], g.players[i+1:]...)
	g.persist(ctx)
	g.emitPlayers()
}

func (g *Gateway) indexOf(connID string) int {
	for i := range g.players {
		if g.players[i].ID == connID {
			return i
		}
	}
	return -1
}

// persist is best effort: the in-memory list stays authoritative.
func (g *Gateway) persist(ctx context.Context) {
	if err := g.store.Save(ctx, g.players); err != nil {
		log.Printf("gateway: persist players: %v", err)
	}
}

func (g *Gateway) dropped(reason string) {
	if g.verbose {
		log.Printf("gateway: dropped %s", reason)
	}
}

func (g *Gateway) emitPlayers() {
	g.out.Broadcast(PlayersMessage(g.players))
}

func (g *Gateway) emitRoundStarted(round int, q domain.Question) {
	g.out.Broadcast(RoundStartedMessage(round, q))
}

func (g *Gateway) emitRoundStats(result domain.RoundResult) {
	g.out.Broadcast(RoundStatsMessage(result))
}

func (g *Gateway) emitNextQuestion(round int, q domain.Question) {
	g.out.Broadcast(NextQuestionMessage(round, q))
}

func (g *Gateway) emitFinished(top []domain.Player) {
	g.out.Broadcast(FinishedMessage(top))
}

func (g *Gateway) emitResetAck() {
	g.out.Broadcast(ResetAckMessage())
}
