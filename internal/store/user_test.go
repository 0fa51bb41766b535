package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"blogpanel/internal/database"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "blogpanel")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "blogpanel")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

// testDB opens a database connection, runs migrations, and registers cleanup.
// If the database is unreachable, the test is skipped.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Reset goose global state so it does not interfere with other tests.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user with a unique email and registers cleanup.
func createTestUser(t *testing.T, s *UserStore, password string) (string, *uuid.UUID) {
	t.Helper()
	email := "user-" + uuid.NewString()[:8] + "@test.local"
	u, err := s.Create(email, password, "Test User")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		s.db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return email, &u.ID
}

func TestUserCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email, id := createTestUser(t, s, "hunter2")

	byEmail, err := s.FindByEmail(email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if byEmail == nil {
		t.Fatal("user not found by email")
	}
	if byEmail.Email != email {
		t.Errorf("email: got %q, want %q", byEmail.Email, email)
	}
	if byEmail.DisplayName != "Test User" {
		t.Errorf("display name: got %q", byEmail.DisplayName)
	}
	if byEmail.CreatedAt.IsZero() {
		t.Error("created_at not stamped")
	}

	byID, err := s.FindByID(*id)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID == nil || byID.Email != email {
		t.Errorf("by id: got %+v", byID)
	}
}

func TestUserFindMissing(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	u, err := s.FindByEmail("nobody-" + uuid.NewString()[:8] + "@test.local")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil for a missing user, got %+v", u)
	}

	u, err = s.FindByID(uuid.New())
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil for a missing id, got %+v", u)
	}
}

func TestUserPasswordCheck(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email, _ := createTestUser(t, s, "correct horse")
	u, err := s.FindByEmail(email)
	if err != nil || u == nil {
		t.Fatalf("lookup: %v", err)
	}

	if u.PasswordHash == "correct horse" {
		t.Error("password stored in plain text")
	}
	if !s.CheckPassword(u, "correct horse") {
		t.Error("correct password rejected")
	}
	if s.CheckPassword(u, "battery staple") {
		t.Error("wrong password accepted")
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email, _ := createTestUser(t, s, "pw")
	if _, err := s.Create(email, "pw", "Imposter"); err == nil {
		t.Error("expected unique-constraint error for duplicate email")
	}
}
