package game

import (
	"crypto/rand"
	"math/big"

	"tab_server/internal/domain"
)

// Tâb's 4-stick randomizer. Each stick lands light side or dark side up;
// the count of light faces maps to a move value. Value 5 is unreachable
// by construction - that is the game's rule, not a gap in the table.
var stickValues = [5]int{6, 1, 2, 3, 4}

// RollSticks throws the four sticks with a cryptographically secure source.
func RollSticks() domain.Dice {
	var d domain.Dice
	for i := range d.Sticks {
		d.Sticks[i] = randBool()
	}
	return diceFromSticks(d.Sticks)
}

// diceFromSticks maps a stick outcome to its dice result. Only the maximum
// roll (all dark, value 6) grants an extra turn.
func diceFromSticks(sticks [4]bool) domain.Dice {
	light := 0
	for _, s := range sticks {
		if s {
			light++
		}
	}
	return domain.Dice{
		Sticks:      sticks,
		Value:       stickValues[light],
		KeepPlaying: light == 0,
	}
}

func randBool() bool {
	n, err := rand.Int(rand.Reader, big.NewInt(2))
	if err != nil {
		// Fallback - should never happen
		return false
	}
	return n.Int64() == 1
}
