// seed inserts a demo user and a handful of todos into the local dev
// database. Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dkarimov/todoapp/internal/infrastructure/postgres"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedUsername = "demo"
	seedEmail    = "demo@test.local"
	seedPassword = "password123"
)

var titles = []string{
	"buy milk",
	"write weekly report",
	"call the dentist",
	"review open pull requests",
	"water the plants",
	"book train tickets",
	"clean the inbox",
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := postgres.Migrate(ctx, dbURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	// Upsert demo user (idempotent re-runs)
	var userID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET updated_at = NOW()
		RETURNING id`,
		seedUsername, seedEmail, string(hash),
	).Scan(&userID)
	if err != nil {
		log.Fatalf("upsert user: %v", err)
	}

	// Only seed todos when the user has none, so re-runs don't pile up rows.
	var existing int
	if err := pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM todos WHERE user_id = $1`, userID).Scan(&existing); err != nil {
		log.Fatalf("count todos: %v", err)
	}

	var inserted int
	if existing == 0 {
		for _, title := range titles {
			if _, err := pool.Exec(ctx,
				`INSERT INTO todos (user_id, title) VALUES ($1, $2)`, userID, title); err != nil {
				log.Fatalf("insert todo %q: %v", title, err)
			}
			inserted++
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:          %s / %s\n", seedUsername, seedPassword)
	fmt.Printf("  User ID:       %d\n", userID)
	fmt.Printf("  Todos created: %d  (skipped: user already had %d)\n", inserted, existing)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — get a token pair:")
	fmt.Println()
	fmt.Println("    curl -s -X POST http://localhost:8080/api/token \\")
	fmt.Println("      -H 'Content-Type: application/json' \\")
	fmt.Printf("      -d '{\"username\":\"%s\",\"password\":\"%s\"}'\n", seedUsername, seedPassword)
	fmt.Println()
	fmt.Println("  Step 2 — list todos:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...   # the \"access\" field from step 1")
	fmt.Println("    curl -s http://localhost:8080/api/todos -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  Step 3 — create one:")
	fmt.Println()
	fmt.Println("    curl -s -X POST http://localhost:8080/api/todos \\")
	fmt.Println("      -H \"Authorization: Bearer $JWT\" -H 'Content-Type: application/json' \\")
	fmt.Println("      -d '{\"title\":\"ship it\"}'")
}
