package backend

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/okulikov/handtext/internal/backend/migrations"
)

// runMigrations applies the embedded schema migrations for the given goose
// dialect ("sqlite3" or "postgres").
func runMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func marshalFields(fields map[string]string) (string, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encoding fields: %w", err)
	}
	return string(data), nil
}

func unmarshalFields(data string) (map[string]string, error) {
	fields := make(map[string]string)
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("decoding fields: %w", err)
	}
	return fields, nil
}

// mergeFields merges updates into the JSON-encoded document body, leaving
// absent fields untouched.
func mergeFields(existing string, updates map[string]string) (string, error) {
	fields, err := unmarshalFields(existing)
	if err != nil {
		return "", err
	}
	for k, v := range updates {
		fields[k] = v
	}
	return marshalFields(fields)
}
