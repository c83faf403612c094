package domain

import "time"

// Color - сторона игрока на доске
type Color string

const (
	ColorNone Color = ""
	ColorBlue Color = "Blue"
	ColorRed  Color = "Red"
)

// Status - жизненный цикл партии
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Step - sub-state within a single move interaction
type Step string

const (
	StepFrom Step = "from"
	StepTo   Step = "to"
	StepTake Step = "take"
)

// Piece occupies one board cell. ReachedLastRow is only set when the piece
// legally enters its final row band, never at initial placement.
type Piece struct {
	Color          Color  `json:"color"`
	Owner          string `json:"owner"`
	InMotion       bool   `json:"in_motion"`
	ReachedLastRow bool   `json:"reached_last_row"`
}

// Dice is the outcome of one stick roll. Present on a game only between the
// roll and the completion of the resulting move(s).
type Dice struct {
	Sticks      [4]bool `json:"sticks"`
	Value       int     `json:"value"`
	KeepPlaying bool    `json:"keep_playing"`
}

// Move is a validated move candidate with its sweep-capture set.
type Move struct {
	From     int   `json:"from"`
	To       int   `json:"to"`
	Captures []int `json:"captures,omitempty"`
}

// MoveRecord is one entry of the append-only move log.
type MoveRecord struct {
	Nick     string    `json:"nick"`
	From     int       `json:"from"`
	To       int       `json:"to"`
	Captured *int      `json:"captured,omitempty"`
	Value    int       `json:"value"`
	PlayedAt time.Time `json:"played_at"`
}

// Game - центральная изменяемая сущность
type Game struct {
	ID          string           `json:"id"`
	Group       int              `json:"group"`
	Size        int              `json:"size"`
	Players     map[string]Color `json:"players"`
	Status      Status           `json:"status"`
	Pieces      []*Piece         `json:"pieces"`
	Turn        string           `json:"turn,omitempty"`
	Initial     string           `json:"initial,omitempty"`
	Step        Step             `json:"step"`
	Dice        *Dice            `json:"dice,omitempty"`
	Selected    []int            `json:"selected,omitempty"`
	PendingMove *Move            `json:"pending_move,omitempty"`
	MustPass    string           `json:"must_pass,omitempty"`
	Winner      string           `json:"winner,omitempty"`
	Moves       []MoveRecord     `json:"moves,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// BoardLen returns the number of cells on the closed loop (four rows of Size).
func (g *Game) BoardLen() int {
	return 4 * g.Size
}

// Opponent returns the other player's nick, or "" while waiting.
func (g *Game) Opponent(nick string) string {
	for n := range g.Players {
		if n != nick {
			return n
		}
	}
	return ""
}

// ColorOf returns the color assigned to nick (ColorNone while waiting).
func (g *Game) ColorOf(nick string) Color {
	return g.Players[nick]
}

// Clone returns a deep copy safe to hand to pollers and push subscribers.
func (g *Game) Clone() *Game {
	c := *g

	c.Players = make(map[string]Color, len(g.Players))
	for n, col := range g.Players {
		c.Players[n] = col
	}

	c.Pieces = make([]*Piece, len(g.Pieces))
	for i, p := range g.Pieces {
		if p != nil {
			pc := *p
			c.Pieces[i] = &pc
		}
	}

	if g.Dice != nil {
		d := *g.Dice
		c.Dice = &d
	}
	if g.PendingMove != nil {
		m := *g.PendingMove
		m.Captures = append([]int(nil), g.PendingMove.Captures...)
		c.PendingMove = &m
	}
	c.Selected = append([]int(nil), g.Selected...)
	c.Moves = append([]MoveRecord(nil), g.Moves...)

	return &c
}
