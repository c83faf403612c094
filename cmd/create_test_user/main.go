package main

import (
	"context"
	"log"
	"os"
	"time"

	"tab_server/internal/db"
	"tab_server/internal/domain"
	"tab_server/internal/service"
	"tab_server/internal/store"
)

// Seeds a test account straight into the record store and prints a JWT
// for it. Expects DATABASE_URL and JWT_SECRET.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	pg := store.NewPostgres(pool)
	ctx := context.Background()

	nick := "testuser"
	if raw, err := pg.Get(ctx, store.KindUsers, nick); err == nil {
		log.Printf("user already exists: %s", raw)
	} else {
		hash, err := service.HashPassword("testpass")
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		u := &domain.User{
			Nick:         nick,
			PasswordHash: hash,
			CreatedAt:    time.Now(),
		}
		if err := pg.Set(ctx, store.KindUsers, nick, u); err != nil {
			log.Fatalf("create user failed: %v", err)
		}
		log.Printf("user created nick=%s password=testpass", nick)
	}

	service.InitJWT(secret)
	token, err := service.GenerateJWT(nick)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token: %s", token)

	pg.Close()
}
