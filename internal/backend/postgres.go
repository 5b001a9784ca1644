package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/crypto/bcrypt"

	"github.com/okulikov/handtext/internal/common"
	"github.com/okulikov/handtext/internal/dbx"
)

// PostgresStore is a Backend over a postgres database, for shared
// self-hosted deployments.
type PostgresStore struct {
	db     *sql.DB
	secret []byte
}

// OpenPostgres connects to the database at dsn via the pgx stdlib driver
// and applies migrations. The secret signs issued id tokens.
func OpenPostgres(ctx context.Context, dsn string, secret []byte) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	if err := runMigrations(ctx, db, "postgres"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db, secret: secret}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateIdentity(ctx context.Context, email, password string) (Credential, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return Credential{}, err
	}

	userID := uuid.NewString()

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var existing string
		err := tx.QueryRowContext(ctx, `SELECT id FROM identities WHERE email = $1`, email).Scan(&existing)
		if err == nil {
			return common.ErrEmailTaken
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("db error: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO identities (id, email, password_hash) VALUES ($1, $2, $3)`,
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

func (s *PostgresStore) Authenticate(ctx context.Context, email, password string) (Credential, error) {
	var (
		userID string
		hash   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM identities WHERE email = $1`, email).Scan(&userID, &hash)
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

func (s *PostgresStore) credential(userID, email string) (Credential, error) {
	token, err := GenerateToken(userID, email, s.secret, defaultTokenValidity)
	if err != nil {
		return Credential{}, fmt.Errorf("minting token: %w", err)
	}
	return Credential{UserID: userID, Email: email, IDToken: token}, nil
}

func (s *PostgresStore) GetDocument(ctx context.Context, collection, id string) (map[string]string, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT fields FROM documents WHERE collection = $1 AND id = $2`, collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return unmarshalFields(body)
}

func (s *PostgresStore) SetDocument(ctx context.Context, collection, id string, fields map[string]string) error {
	body, err := marshalFields(fields)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, fields) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET fields = EXCLUDED.fields, updated_at = CURRENT_TIMESTAMP
	`, collection, id, body)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateDocument(ctx context.Context, collection, id string, fields map[string]string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var body string
		err := tx.QueryRowContext(ctx,
			`SELECT fields FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`, collection, id).Scan(&body)
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
			`UPDATE documents SET fields = $1, updated_at = CURRENT_TIMESTAMP WHERE collection = $2 AND id = $3`,
			merged, collection, id); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}
