package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"carelink/internal/connection"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
	"carelink/pkg/platform/tx"
)

// PostgresStore persists connection records in PostgreSQL. The metadata
// overlay is stored as a single jsonb column; the version column backs the
// optimistic lock, so the UPDATE's WHERE clause is the CAS point.
//
// Schema (migrations/001_connections.sql):
//
//	CREATE TABLE connections (
//	    id              UUID PRIMARY KEY,
//	    type            TEXT NOT NULL,
//	    status          TEXT NOT NULL,
//	    from_profile_id UUID NOT NULL,
//	    to_profile_id   UUID NOT NULL,
//	    message         JSONB NOT NULL DEFAULT '{}',
//	    metadata        JSONB NOT NULL DEFAULT '{}',
//	    version         BIGINT NOT NULL DEFAULT 0,
//	    created_at      TIMESTAMPTZ NOT NULL,
//	    updated_at      TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed connection store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn resolves the executor: an ambient transaction from context when one
// is present, the pool otherwise.
func (s *PostgresStore) conn(ctx context.Context) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

const connectionColumns = `id, type, status, from_profile_id, to_profile_id, message, metadata, version, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, conn *connection.Connection) error {
	message, metadata, err := marshalPayload(conn)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO connections (` + connectionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := s.conn(ctx).ExecContext(ctx, query,
		conn.ID.String(),
		string(conn.Type),
		string(conn.Status),
		conn.FromProfileID.String(),
		conn.ToProfileID.String(),
		message,
		metadata,
		conn.Version,
		conn.CreatedAt,
		conn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create connection: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create connection: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, connID id.ConnectionID) (*connection.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE id = $1`
	record, err := scanConnection(s.conn(ctx).QueryRowContext(ctx, query, connID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get connection: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Update(ctx context.Context, conn *connection.Connection) error {
	message, metadata, err := marshalPayload(conn)
	if err != nil {
		return err
	}
	query := `
		UPDATE connections
		SET status = $3, message = $4, metadata = $5, version = version + 1, updated_at = $6
		WHERE id = $1 AND version = $2
	`
	res, err := s.conn(ctx).ExecContext(ctx, query,
		conn.ID.String(),
		conn.Version,
		string(conn.Status),
		message,
		metadata,
		conn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update connection: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update connection: %w", err)
	}
	if rows == 0 {
		// Distinguish a missing row from a stale version.
		var exists bool
		checkErr := s.conn(ctx).QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM connections WHERE id = $1)`, conn.ID.String(),
		).Scan(&exists)
		if checkErr != nil {
			return fmt.Errorf("update connection: %w", checkErr)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrConflict
	}
	conn.Version++
	return nil
}

func (s *PostgresStore) FindPendingBetween(ctx context.Context, from, to id.ProfileID, typ connection.Type) (*connection.Connection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM connections
		WHERE from_profile_id = $1 AND to_profile_id = $2 AND type = $3 AND status = $4
		ORDER BY created_at DESC
		LIMIT 1
	`
	record, err := scanConnection(s.conn(ctx).QueryRowContext(ctx, query,
		from.String(), to.String(), string(typ), string(connection.StatusPending)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find pending connection: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) ListByProfile(ctx context.Context, profileID id.ProfileID) ([]*connection.Connection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM connections
		WHERE from_profile_id = $1 OR to_profile_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.conn(ctx).QueryContext(ctx, query, profileID.String())
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close()

	var out []*connection.Connection
	for rows.Next() {
		record, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("list connections: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return out, nil
}

func marshalPayload(conn *connection.Connection) (message, metadata []byte, err error) {
	message, err = json.Marshal(conn.Message)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal message: %w", err)
	}
	metadata, err = json.Marshal(conn.Metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return message, metadata, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConnection(row rowScanner) (*connection.Connection, error) {
	var (
		conn        connection.Connection
		rawID       string
		rawType     string
		rawStatus   string
		rawFrom     string
		rawTo       string
		rawMessage  []byte
		rawMetadata []byte
	)
	if err := row.Scan(&rawID, &rawType, &rawStatus, &rawFrom, &rawTo,
		&rawMessage, &rawMetadata, &conn.Version, &conn.CreatedAt, &conn.UpdatedAt); err != nil {
		return nil, err
	}

	connID, err := id.ParseConnectionID(rawID)
	if err != nil {
		return nil, err
	}
	from, err := id.ParseProfileID(rawFrom)
	if err != nil {
		return nil, err
	}
	to, err := id.ParseProfileID(rawTo)
	if err != nil {
		return nil, err
	}
	conn.ID = connID
	conn.Type = connection.Type(rawType)
	conn.Status = connection.Status(rawStatus)
	conn.FromProfileID = from
	conn.ToProfileID = to

	if err := json.Unmarshal(rawMessage, &conn.Message); err != nil {
		return nil, fmt.Errorf("unmarshal message: %w", err)
	}
	if err := json.Unmarshal(rawMetadata, &conn.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return &conn, nil
}
