package config

import "testing"

func TestDatabaseDriver(t *testing.T) {
	cases := map[string]string{"": "sqlite3", "SQLite": "sqlite3", "postgresql": "postgres", "pgx": "pgx"}
	for in, want := range cases {
		cfg := &Config{Database: DatabaseConfig{Driver: in}}
		got, err := cfg.DatabaseDriver()
		if err != nil || got != want {
			t.Fatalf("driver %q: expected %q, got %q err=%v", in, want, got, err)
		}
	}
	cfg := &Config{Database: DatabaseConfig{Driver: "mysql"}}
	if _, err := cfg.DatabaseDriver(); err == nil {
		t.Fatalf("expected error for mysql")
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Driver: "postgres", Host: "db", Port: 5433, Name: "lc", User: "app", Password: "p@ss", SSLMode: "disable",
	}}
	got, err := cfg.DatabaseURL()
	if err != nil {
		t.Fatalf("DatabaseURL: %v", err)
	}
	if want := "postgres://app:p%40ss@db:5433/lc?sslmode=disable"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	cfg = &Config{Database: DatabaseConfig{Driver: "sqlite3", Name: "dev"}}
	if got, _ := cfg.DatabaseURL(); got != "file:dev.db?cache=shared&_fk=1" {
		t.Fatalf("unexpected sqlite dsn %q", got)
	}

	cfg.Database.DSN = "file::memory:"
	if got, _ := cfg.DatabaseURL(); got != "file::memory:" {
		t.Fatalf("explicit dsn must win, got %q", got)
	}
}
