package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user and a handful of posts so the list view and pagination have
// something to show. It is a no-op once any user exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "admin@blogpanel.local", string(hash), "Admin").Scan(&userID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Six posts: enough for two pages at the default window size of four.
	posts := []struct {
		title, author, category, description string
	}{
		{"Hello, world", "Admin", "happy", "First post from the seeded panel."},
		{"Rainy Tuesday", "Admin", "sad", "Grey skies all day."},
		{"Deadline crunch", "Admin", "anger", "The release slipped again."},
		{"Night noises", "Admin", "fear", "Something creaked upstairs."},
		{"Small wins", "Admin", "happy", "Fixed the flaky test on the first try."},
		{"Back to it", "Admin", "happy", "Holidays are over, inbox is full."},
	}
	for _, p := range posts {
		_, err := db.Exec(`
			INSERT INTO blog_list (title, author, category, description, user_id, email)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.title, p.author, p.category, p.description, userID, "admin@blogpanel.local")
		if err != nil {
			return fmt.Errorf("seed insert post %q: %w", p.title, err)
		}
	}

	slog.Info("database seeded with default admin user and sample posts",
		"email", "admin@blogpanel.local",
		"password", "admin",
		"posts", len(posts),
	)

	return nil
}
