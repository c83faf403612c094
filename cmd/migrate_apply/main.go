package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"tab_server/internal/store"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	apply := flag.Bool("apply", false, "apply the schema")
	flag.Parse()

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if !*apply {
		fmt.Println("records table (run with -apply to create)")
		return
	}

	pg := store.NewPostgres(db)
	if err := pg.Migrate(context.Background()); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}
	fmt.Println("schema applied")
}
