package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/okulikov/handtext/internal/common"
	"github.com/okulikov/handtext/internal/dbx"
)

// SQLiteStore is a Backend over a sqlite database, for single-host
// self-hosted deployments and tests.
type SQLiteStore struct {
	db     *sql.DB
	secret []byte
}

// OpenSQLite opens (or creates) the database at dsn and applies migrations.
// The secret signs issued id tokens.
func OpenSQLite(ctx context.Context, dsn string, secret []byte) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if err := runMigrations(ctx, db, "sqlite3"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, secret: secret}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateIdentity(ctx context.Context, email, password string) (Credential, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return Credential{}, err
	}

	userID := uuid.NewString()

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var existing string
		err := tx.QueryRowContext(ctx, `SELECT id FROM identities WHERE email = ?`, email).Scan(&existing)
		if err == nil {
			return common.ErrEmailTaken
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("db error: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO identities (id, email, password_hash) VALUES (?, ?, ?)`,
			userID, email, hash); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
	if err != nil {
		return Credential{}, err
	}

	return s.credential(userID, email)
}

func (s *SQLiteStore) Authenticate(ctx context.Context, email, password string) (Credential, error) {
	var (
		userID string
		hash   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM identities WHERE email = ?`, email).Scan(&userID, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return Credential{}, common.ErrInvalidCredentials
	}
	if err != nil {
		return Credential{}, fmt.Errorf("db error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Credential{}, common.ErrInvalidCredentials
	}

	return s.credential(userID, email)
}

func (s *SQLiteStore) credential(userID, email string) (Credential, error) {
	token, err := GenerateToken(userID, email, s.secret, defaultTokenValidity)
	if err != nil {
		return Credential{}, fmt.Errorf("minting token: %w", err)
	}
	return Credential{UserID: userID, Email: email, IDToken: token}, nil
}

func (s *SQLiteStore) GetDocument(ctx context.Context, collection, id string) (map[string]string, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT fields FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return unmarshalFields(body)
}

func (s *SQLiteStore) SetDocument(ctx context.Context, collection, id string, fields map[string]string) error {
	body, err := marshalFields(fields)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, fields) VALUES (?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET fields = excluded.fields, updated_at = CURRENT_TIMESTAMP
	`, collection, id, body)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateDocument(ctx context.Context, collection, id string, fields map[string]string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var body string
		err := tx.QueryRowContext(ctx,
			`SELECT fields FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&body)
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		merged, err := mergeFields(body, fields)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE documents SET fields = ?, updated_at = CURRENT_TIMESTAMP WHERE collection = ? AND id = ?`,
			merged, collection, id); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}
