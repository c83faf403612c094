package domain

import "time"

// User - аккаунт игрока; never deleted, stats mutated on every game completion
type User struct {
	Nick         string    `json:"nick"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	LastLogin    time.Time `json:"last_login"`
	GamesPlayed  int       `json:"games_played"`
	Victories    int       `json:"victories"`
}
