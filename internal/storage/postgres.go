// Package storage implements PostgreSQL persistence for the tree
// account, the nullifier/commitment account registry, and the global
// config.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shieldpool/core/pkg/types"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrDBConnection = errors.New("database connection error")
)

// PostgresStore implements persistent storage using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Config holds database configuration.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
}

// DefaultConfig returns default database configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     5432,
		User:     "shieldpool",
		Password: "",
		Database: "shieldpool",
		SSLMode:  "disable",
		MaxConns: 20,
	}
}

// NewPostgresStore creates a new PostgreSQL store and verifies
// connectivity.
func NewPostgresStore(ctx context.Context, cfg *Config) (*PostgresStore, error) {
	connString := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode, cfg.MaxConns,
	)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDBConnection, err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDBConnection, err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// ============================================
// Tree state
// ============================================

// Load implements merkle.Store: it reads the single tree_state row.
func (s *PostgresStore) Load(ctx context.Context) (*types.TreeState, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT height, next_index, root, root_index, max_deposit_amount, authority, bump,
			subtrees, root_history
		FROM tree_state WHERE id = 1`)

	var ts types.TreeState
	var root, authority []byte
	var subtreesFlat, rootHistoryFlat []byte
	if err := row.Scan(&ts.Height, &ts.NextIndex, &root, &ts.RootIndex, &ts.MaxDepositAmount,
		&authority, &ts.Bump, &subtreesFlat, &rootHistoryFlat); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: load tree state: %w", err)
	}

	ts.Root = types.HashFromBytes(root)
	ts.Authority = types.AddressFromBytes(authority)
	unpackHashes(subtreesFlat, ts.Subtrees[:])
	unpackHashes(rootHistoryFlat, ts.RootHistory[:])

	return &ts, nil
}

// Save implements merkle.Store: it upserts the single tree_state row.
func (s *PostgresStore) Save(ctx context.Context, ts *types.TreeState) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tree_state (id, height, next_index, root, root_index, max_deposit_amount,
			authority, bump, subtrees, root_history)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			height = EXCLUDED.height,
			next_index = EXCLUDED.next_index,
			root = EXCLUDED.root,
			root_index = EXCLUDED.root_index,
			max_deposit_amount = EXCLUDED.max_deposit_amount,
			authority = EXCLUDED.authority,
			bump = EXCLUDED.bump,
			subtrees = EXCLUDED.subtrees,
			root_history = EXCLUDED.root_history`,
		ts.Height, ts.NextIndex, ts.Root.Bytes(), ts.RootIndex, ts.MaxDepositAmount,
		ts.Authority.Bytes(), ts.Bump, packHashes(ts.Subtrees[:]), packHashes(ts.RootHistory[:]))
	if err != nil {
		return fmt.Errorf("storage: save tree state: %w", err)
	}
	return nil
}

// ============================================
// Account registry
// ============================================

// NullifierExists implements registry.AccountRegistry.
func (s *PostgresStore) NullifierExists(ctx context.Context, addr types.Address) (bool, error) {
	return s.rowExists(ctx, "nullifier_accounts", addr)
}

// CreateNullifier implements registry.AccountRegistry.
func (s *PostgresStore) CreateNullifier(ctx context.Context, addr types.Address, acc *types.NullifierAccount) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO nullifier_accounts (address, nullifier, bump) VALUES ($1, $2, $3)`,
		addr.Bytes(), acc.Nullifier.Bytes(), acc.Bump)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return nil
}

// CommitmentExists implements registry.AccountRegistry.
func (s *PostgresStore) CommitmentExists(ctx context.Context, addr types.Address) (bool, error) {
	return s.rowExists(ctx, "commitment_accounts", addr)
}

// CreateCommitment implements registry.AccountRegistry.
func (s *PostgresStore) CreateCommitment(ctx context.Context, addr types.Address, acc *types.CommitmentAccount) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO commitment_accounts (address, commitment, encrypted_note, bump) VALUES ($1, $2, $3, $4)`,
		addr.Bytes(), acc.Commitment.Bytes(), acc.EncryptedNote, acc.Bump)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return nil
}

func (s *PostgresStore) rowExists(ctx context.Context, table string, addr types.Address) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE address = $1)`, table)
	if err := s.pool.QueryRow(ctx, query, addr.Bytes()).Scan(&exists); err != nil {
		return false, fmt.Errorf("storage: existence check on %s: %w", table, err)
	}
	return exists, nil
}

// ============================================
// Global config
// ============================================

// LoadConfig implements config.Store.
func (s *PostgresStore) LoadConfig() (*types.GlobalConfig, error) {
	ctx := context.Background()
	row := s.pool.QueryRow(ctx, `
		SELECT deposit_fee_rate_bps, withdrawal_fee_rate_bps, fee_error_margin_bps, authority, bump
		FROM global_config WHERE id = 1`)

	var cfg types.GlobalConfig
	var authority []byte
	if err := row.Scan(&cfg.DepositFeeRateBps, &cfg.WithdrawalFeeRateBps, &cfg.FeeErrorMarginBps, &authority, &cfg.Bump); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: load global config: %w", err)
	}
	cfg.Authority = types.AddressFromBytes(authority)
	return &cfg, nil
}

// SaveConfig implements config.Store.
func (s *PostgresStore) SaveConfig(cfg *types.GlobalConfig) error {
	ctx := context.Background()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO global_config (id, deposit_fee_rate_bps, withdrawal_fee_rate_bps, fee_error_margin_bps, authority, bump)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			deposit_fee_rate_bps = EXCLUDED.deposit_fee_rate_bps,
			withdrawal_fee_rate_bps = EXCLUDED.withdrawal_fee_rate_bps,
			fee_error_margin_bps = EXCLUDED.fee_error_margin_bps,
			authority = EXCLUDED.authority,
			bump = EXCLUDED.bump`,
		cfg.DepositFeeRateBps, cfg.WithdrawalFeeRateBps, cfg.FeeErrorMarginBps, cfg.Authority.Bytes(), cfg.Bump)
	if err != nil {
		return fmt.Errorf("storage: save global config: %w", err)
	}
	return nil
}

// packHashes flattens a slice of 32-byte hashes into one byte slice
// for storage in a single bytea column.
func packHashes(hashes []types.Hash) []byte {
	out := make([]byte, 0, len(hashes)*types.HashSize)
	for _, h := range hashes {
		out = append(out, h[:]...)
	}
	return out
}

// unpackHashes is the inverse of packHashes.
func unpackHashes(flat []byte, dst []types.Hash) {
	for i := range dst {
		start := i * types.HashSize
		if start+types.HashSize > len(flat) {
			return
		}
		dst[i] = types.HashFromBytes(flat[start : start+types.HashSize])
	}
}

// Schema is the DDL the daemon applies on first startup against a
// fresh database.
const Schema = `
CREATE TABLE IF NOT EXISTS tree_state (
	id INTEGER PRIMARY KEY,
	height SMALLINT NOT NULL,
	next_index BIGINT NOT NULL,
	root BYTEA NOT NULL,
	root_index INTEGER NOT NULL,
	max_deposit_amount BIGINT NOT NULL,
	authority BYTEA NOT NULL,
	bump SMALLINT NOT NULL,
	subtrees BYTEA NOT NULL,
	root_history BYTEA NOT NULL
);

CREATE TABLE IF NOT EXISTS nullifier_accounts (
	address BYTEA PRIMARY KEY,
	nullifier BYTEA NOT NULL,
	bump SMALLINT NOT NULL
);

CREATE TABLE IF NOT EXISTS commitment_accounts (
	address BYTEA PRIMARY KEY,
	commitment BYTEA NOT NULL,
	encrypted_note BYTEA NOT NULL,
	bump SMALLINT NOT NULL
);

CREATE TABLE IF NOT EXISTS global_config (
	id INTEGER PRIMARY KEY,
	deposit_fee_rate_bps SMALLINT NOT NULL,
	withdrawal_fee_rate_bps SMALLINT NOT NULL,
	fee_error_margin_bps SMALLINT NOT NULL,
	authority BYTEA NOT NULL,
	bump SMALLINT NOT NULL
);
`

// ApplySchema creates the storage schema if it does not already exist.
func (s *PostgresStore) ApplySchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	if err != nil {
		return fmt.Errorf("storage: apply schema: %w", err)
	}
	return nil
}
