package game

import (
	"time"

	"tab_server/internal/domain"
)

// The board is a closed loop of 4*size cells, conceptually four rows of
// length size. Blue advances by +value mod N, Red by -value mod N. Blue's
// final row band is the last size cells, Red's the first size cells.

// InitBoard places size pieces per player on their home rows. Everything
// else starts empty.
func InitBoard(g *domain.Game) {
	n := g.BoardLen()
	g.Pieces = make([]*domain.Piece, n)

	for nick, color := range g.Players {
		switch color {
		case domain.ColorBlue:
			for i := 0; i < g.Size; i++ {
				g.Pieces[i] = &domain.Piece{Color: color, Owner: nick}
			}
		case domain.ColorRed:
			for i := n - g.Size; i < n; i++ {
				g.Pieces[i] = &domain.Piece{Color: color, Owner: nick}
			}
		}
	}
}

// Direction returns the fixed movement direction around the loop for a color.
func Direction(c domain.Color) int {
	if c == domain.ColorRed {
		return -1
	}
	return 1
}

// Target computes the directional landing cell for a piece at from.
func Target(g *domain.Game, from, value int, c domain.Color) int {
	n := g.BoardLen()
	return ((from+Direction(c)*value)%n + n) % n
}

// InFinalRow reports whether cell lies in the color's final row band.
func InFinalRow(g *domain.Game, cell int, c domain.Color) bool {
	if c == domain.ColorRed {
		return cell < g.Size
	}
	return cell >= g.BoardLen()-g.Size
}

// CapturesOnPath walks the loop from `from` (exclusive) to `to` (inclusive)
// in nick's direction and collects every opposing piece encountered. This is
// the sweep capture rule: any enemy piece the mover passes over or lands on
// is capturable, not just the one on the landing square.
func CapturesOnPath(g *domain.Game, from, to int, nick string) []int {
	n := g.BoardLen()
	d := Direction(g.ColorOf(nick))

	var captures []int
	visited := make(map[int]bool, n)

	cell := from
	for {
		cell = ((cell+d)%n + n) % n
		if visited[cell] {
			// direction and modulus gone inconsistent; bail out
			break
		}
		visited[cell] = true

		if p := g.Pieces[cell]; p != nil && p.Owner != nick {
			captures = append(captures, cell)
		}
		if cell == to {
			break
		}
	}
	return captures
}

// ValidateMove checks a from→to move for nick and annotates it with its
// capture set.
func ValidateMove(g *domain.Game, nick string, from, to int) (domain.Move, error) {
	p := g.Pieces[from]
	if p == nil || p.Owner != nick {
		return domain.Move{}, domain.ErrNoPieceAtPosition
	}
	if dst := g.Pieces[to]; dst != nil && dst.Owner == nick {
		return domain.Move{}, domain.ErrIllegalMove
	}
	return domain.Move{From: from, To: to, Captures: CapturesOnPath(g, from, to, nick)}, nil
}

// PossibleMoves collects every valid move for nick given a dice value.
func PossibleMoves(g *domain.Game, nick string, value int) []domain.Move {
	var moves []domain.Move
	for from, p := range g.Pieces {
		if p == nil || p.Owner != nick {
			continue
		}
		to := Target(g, from, value, p.Color)
		mv, err := ValidateMove(g, nick, from, to)
		if err != nil {
			continue
		}
		moves = append(moves, mv)
	}
	return moves
}

// ExecuteMove moves the piece and resolves the chosen capture (-1 for none).
// This is the only function that mutates Pieces.
func ExecuteMove(g *domain.Game, mv domain.Move, capture int) {
	p := g.Pieces[mv.From]
	g.Pieces[mv.From] = nil

	p.InMotion = true
	if InFinalRow(g, mv.To, p.Color) {
		p.ReachedLastRow = true
	}

	if capture >= 0 {
		g.Pieces[capture] = nil
	}
	// landing on an unchosen enemy piece still displaces it
	g.Pieces[mv.To] = p
}

// PieceCount returns how many pieces nick still owns.
func PieceCount(g *domain.Game, nick string) int {
	count := 0
	for _, p := range g.Pieces {
		if p != nil && p.Owner == nick {
			count++
		}
	}
	return count
}

// HasWon reports whether every piece nick owns sits inside its final row
// band AND has validly arrived there at least once. A piece merely occupying
// the band without the flag does not count. A player with no pieces left
// cannot win this way.
func HasWon(g *domain.Game, nick string) bool {
	owned := 0
	for cell, p := range g.Pieces {
		if p == nil || p.Owner != nick {
			continue
		}
		owned++
		if !InFinalRow(g, cell, p.Color) || !p.ReachedLastRow {
			return false
		}
	}
	return owned > 0
}

// NextTurn hands the turn to the other player and resets the move interaction.
func NextTurn(g *domain.Game) {
	g.Turn = g.Opponent(g.Turn)
	g.Dice = nil
	g.Step = domain.StepFrom
	g.Selected = nil
	g.PendingMove = nil
	g.MustPass = ""
}

// HandleCell drives the from/take sub-state machine for one cell selection.
// The interaction protocol is single-click: selecting a piece in the `from`
// step derives its unique target for the current dice value and either
// executes immediately (no captures) or stores the candidate and advances to
// `take`, where exactly one cell of the capture set must be chosen.
func HandleCell(g *domain.Game, nick string, cell int) error {
	switch g.Step {
	case domain.StepFrom:
		return handleFrom(g, nick, cell)
	case domain.StepTake:
		return handleTake(g, nick, cell)
	default:
		return domain.ErrIllegalMove
	}
}

func handleFrom(g *domain.Game, nick string, cell int) error {
	p := g.Pieces[cell]
	if p == nil || p.Owner != nick {
		return domain.ErrNoPieceAtPosition
	}

	to := Target(g, cell, g.Dice.Value, p.Color)
	mv, err := ValidateMove(g, nick, cell, to)
	if err != nil {
		return err
	}

	if len(mv.Captures) > 0 {
		g.PendingMove = &mv
		g.Selected = []int{cell}
		g.Step = domain.StepTake
		return nil
	}

	recordMove(g, nick, mv, -1)
	ExecuteMove(g, mv, -1)
	finishMove(g)
	return nil
}

func handleTake(g *domain.Game, nick string, cell int) error {
	if g.PendingMove == nil {
		return domain.ErrIllegalMove
	}

	chosen := -1
	for _, c := range g.PendingMove.Captures {
		if c == cell {
			chosen = c
			break
		}
	}
	if chosen < 0 {
		return domain.ErrInvalidCaptureChoice
	}

	recordMove(g, nick, *g.PendingMove, chosen)
	ExecuteMove(g, *g.PendingMove, chosen)
	finishMove(g)
	return nil
}

// finishMove resolves the dice after an executed move: a repeat roll keeps
// the turn (dice cleared, same player rolls again), otherwise the turn passes.
func finishMove(g *domain.Game) {
	if g.Dice != nil && g.Dice.KeepPlaying {
		g.Dice = nil
		g.Step = domain.StepFrom
		g.Selected = nil
		g.PendingMove = nil
		g.MustPass = ""
		return
	}
	NextTurn(g)
}

func recordMove(g *domain.Game, nick string, mv domain.Move, capture int) {
	rec := domain.MoveRecord{
		Nick:     nick,
		From:     mv.From,
		To:       mv.To,
		Value:    g.Dice.Value,
		PlayedAt: time.Now().UTC(),
	}
	if capture >= 0 {
		c := capture
		rec.Captured = &c
	}
	g.Moves = append(g.Moves, rec)
}
