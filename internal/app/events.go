package app

import (
	"encoding/json"
	"fmt"

	"live-quiz-service/internal/domain"
)

// Inbound event types as they appear on the wire.
const (
	TypeJoin         = "join"
	TypeStartGame    = "startGame"
	TypeAnswer       = "answer"
	TypeNextQuestion = "nextQuestion"
	TypeResetGame    = "resetGame"
)

// Outbound event types.
const (
	TypePlayers       = "players"
	TypeQuestionStats = "questionStats"
	TypeFinish        = "finish"
)

// Inbound is one of JoinEvent, StartEvent, AnswerEvent, AdvanceEvent,
// ResetEvent or DisconnectEvent.
type Inbound interface {
	Sender() string
	inbound()
}

type JoinEvent struct {
	ConnID string
	Name   string
	Avatar string
}

type StartEvent struct {
	ConnID string
}

// AnswerEvent targets Round, or the current round when Round is AnyRound.
// Name must match the display name the connection joined with; other answers are dropped.
type AnswerEvent struct {
	ConnID string
	Name   string
	Answer string
	Round  int
}

// AnyRound marks an answer that did not say which round it was meant for.
const AnyRound = -1

type AdvanceEvent struct {
	ConnID string
}

type ResetEvent struct {
	ConnID string
}

// DisconnectEvent is raised by the transport when a connection closes.
type DisconnectEvent struct {
	ConnID string
}

func (e JoinEvent) Sender() string       { return e.ConnID }
func (e StartEvent) Sender() string      { return e.ConnID }
func (e AnswerEvent) Sender() string     { return e.ConnID }
func (e AdvanceEvent) Sender() string    { return e.ConnID }
func (e ResetEvent) Sender() string      { return e.ConnID }
func (e DisconnectEvent) Sender() string { return e.ConnID }

func (JoinEvent) inbound()       {}
func (StartEvent) inbound()      {}
func (AnswerEvent) inbound()     {}
func (AdvanceEvent) inbound()    {}
func (ResetEvent) inbound()      {}
func (DisconnectEvent) inbound() {}

type joinPayload struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type answerPayload struct {
	Name   string `json:"name"`
	Answer string `json:"answer"`
	Round  *int   `json:"round"`
}

// DecodeInbound turns a wire envelope into a typed event. Disconnects never
// arrive on the wire and are not decoded here.
func DecodeInbound(connID, eventType string, payload json.RawMessage) (Inbound, error) {
	switch eventType {
	case TypeJoin:
		var p joinPayload
		if err := decodePayload(payload, &p); err != nil {
			return nil, err
		}
		if p.Name == "" {
			return nil, fmt.Errorf("%w: join without name", domain.ErrMalformedEvent)
		}
		return JoinEvent{ConnID: connID, Name: p.Name, Avatar: p.Avatar}, nil
	case TypeStartGame:
		return StartEvent{ConnID: connID}, nil
	case TypeAnswer:
		var p answerPayload
		if err := decodePayload(payload, &p); err != nil {
			return nil, err
		}
		if p.Name == "" || p.Answer == "" {
			return nil, fmt.Errorf("%w: answer needs name and answer", domain.ErrMalformedEvent)
		}
		round := AnyRound
		if p.Round != nil {
			if *p.Round < 0 {
				return nil, fmt.Errorf("%w: negative round", domain.ErrMalformedEvent)
			}
			round = *p.Round
		}
		return AnswerEvent{ConnID: connID, Name: p.Name, Answer: p.Answer, Round: round}, nil
	case TypeNextQuestion:
		return AdvanceEvent{ConnID: connID}, nil
	case TypeResetGame:
		return ResetEvent{ConnID: connID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEvent, eventType)
	}
}

func decodePayload(payload json.RawMessage, dst any) error {
	if len(payload) == 0 || string(payload) == "null" {
		return fmt.Errorf("%w: empty payload", domain.ErrMalformedEvent)
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}
	return nil
}

// Outbound is a broadcast frame.
type Outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// QuestionPayload presents a question without its correct answer.
type QuestionPayload struct {
	Round    int      `json:"round"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Image    *string  `json:"image"`
	Audio    *string  `json:"audio"`
}

type FinishPayload struct {
	TopPlayers []domain.Player `json:"topPlayers"`
}

func PlayersMessage(players []domain.Player) Outbound {
	list := make([]domain.Player, len(players))
	copy(list, players)
	return Outbound{Type: TypePlayers, Payload: list}
}

// RoundStartedMessage opens the first round. Missing media are sent as null.
func RoundStartedMessage(round int, q domain.Question) Outbound {
	return Outbound{Type: TypeStartGame, Payload: QuestionPayload{
		Round:    round,
		Question: q.Text,
		Options:  q.Options,
		Image:    optional(q.Image),
		Audio:    optional(q.Audio),
	}}
}

// NextQuestionMessage opens a following round. Missing media are sent as "".
func NextQuestionMessage(round int, q domain.Question) Outbound {
	image, audio := q.Image, q.Audio
	return Outbound{Type: TypeNextQuestion, Payload: QuestionPayload{
		Round:    round,
		Question: q.Text,
		Options:  q.Options,
		Image:    &image,
		Audio:    &audio,
	}}
}

func RoundStatsMessage(result domain.RoundResult) Outbound {
	return Outbound{Type: TypeQuestionStats, Payload: result}
}

func FinishedMessage(top []domain.Player) Outbound {
	return Outbound{Type: TypeFinish, Payload: FinishPayload{TopPlayers: top}}
}

func ResetAckMessage() Outbound {
	return Outbound{Type: TypeResetGame, Payload: struct{}{}}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
