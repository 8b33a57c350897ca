package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/boutique-crm/clientele-cli/internal/identity"
	"github.com/boutique-crm/clientele-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS clients (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	name_folded      TEXT NOT NULL,
	phone            TEXT NOT NULL DEFAULT '',
	phone_normalized TEXT NOT NULL DEFAULT '',
	phone_suffix     TEXT NOT NULL DEFAULT '',
	whatsapp_number  TEXT NOT NULL DEFAULT '',
	whatsapp_suffix  TEXT NOT NULL DEFAULT '',
	email            TEXT NOT NULL DEFAULT '',
	priority         TEXT NOT NULL DEFAULT 'medium',
	status           TEXT NOT NULL DEFAULT 'prospect',
	interests        JSONB,
	notes            TEXT NOT NULL DEFAULT '',
	budget_range     TEXT NOT NULL DEFAULT '',
	lead_score       INTEGER NOT NULL DEFAULT 50,
	urgency_score    INTEGER NOT NULL DEFAULT 0,
	deal_value       DOUBLE PRECISION NOT NULL DEFAULT 0,
	last_contact     TIMESTAMPTZ,
	next_follow_up   TIMESTAMPTZ,
	source           TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_clients_phone_suffix ON clients(phone_suffix);
CREATE INDEX IF NOT EXISTS idx_clients_whatsapp_suffix ON clients(whatsapp_suffix);
CREATE INDEX IF NOT EXISTS idx_clients_name_folded ON clients(name_folded);
CREATE INDEX IF NOT EXISTS idx_clients_next_follow_up ON clients(next_follow_up);
CREATE INDEX IF NOT EXISTS idx_clients_status ON clients(status);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const pgClientColumns = `id, name, phone, phone_normalized, whatsapp_number, email,
	priority, status, interests, notes, budget_range, lead_score,
	urgency_score, deal_value, last_contact, next_follow_up, source,
	created_at, updated_at`

func (s *PostgresStore) Upsert(ctx context.Context, c *model.Client) (*model.Client, error) {
	interestsJSON, err := json.Marshal(c.Interests)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal interests")
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO clients (
			id, name, name_folded, phone, phone_normalized, phone_suffix,
			whatsapp_number, whatsapp_suffix, email, priority, status,
			interests, notes, budget_range, lead_score, urgency_score,
			deal_value, last_contact, next_follow_up, source, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			name_folded = EXCLUDED.name_folded,
			phone = EXCLUDED.phone,
			phone_normalized = EXCLUDED.phone_normalized,
			phone_suffix = EXCLUDED.phone_suffix,
			whatsapp_number = EXCLUDED.whatsapp_number,
			whatsapp_suffix = EXCLUDED.whatsapp_suffix,
			email = EXCLUDED.email,
			priority = EXCLUDED.priority,
			status = EXCLUDED.status,
			interests = EXCLUDED.interests,
			notes = EXCLUDED.notes,
			budget_range = EXCLUDED.budget_range,
			lead_score = EXCLUDED.lead_score,
			urgency_score = EXCLUDED.urgency_score,
			deal_value = EXCLUDED.deal_value,
			last_contact = EXCLUDED.last_contact,
			next_follow_up = EXCLUDED.next_follow_up,
			source = EXCLUDED.source,
			updated_at = EXCLUDED.updated_at`,
		c.ID, c.Name, identity.FoldName(c.Name), c.Phone, c.PhoneNormalized,
		identity.PhoneSuffix(c.PhoneNormalized), c.WhatsAppNumber,
		identity.PhoneSuffix(identity.NormalizePhone(c.WhatsAppNumber)),
		c.Email, string(c.Priority), string(c.Status), interestsJSON,
		c.Notes, c.BudgetRange, c.LeadScore, c.UrgencyScore, c.DealValue,
		c.LastContact, c.NextFollowUp, c.Source, c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: upsert client %s", c.ID)
	}
	return c, nil
}

func (s *PostgresStore) GetClient(ctx context.Context, id string) (*model.Client, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+pgClientColumns+` FROM clients WHERE id = $1`, id)
	c, err := scanPgClient(row)
	if err == pgx.ErrNoRows {
		return nil, eris.Errorf("postgres: client not found: %s", id)
	}
	return c, err
}

func (s *PostgresStore) FindByPhoneSuffix(ctx context.Context, suffix string) ([]model.Client, error) {
	if suffix == "" {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+pgClientColumns+` FROM clients
		 WHERE phone_suffix = $1 OR whatsapp_suffix = $1
		 ORDER BY created_at ASC`,
		suffix,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: find by phone suffix")
	}
	defer rows.Close()
	return collectPgClients(rows)
}

func (s *PostgresStore) FindByNameExact(ctx context.Context, foldedName string) (*model.Client, error) {
	if foldedName == "" {
		return nil, nil
	}
	row := s.pool.QueryRow(ctx,
		`SELECT `+pgClientColumns+` FROM clients
		 WHERE name_folded = $1 ORDER BY created_at ASC LIMIT 1`,
		foldedName,
	)
	c, err := scanPgClient(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (s *PostgresStore) ListClients(ctx context.Context, filter ClientFilter) ([]model.Client, error) {
	query := `SELECT ` + pgClientColumns + ` FROM clients WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $1`
	}
	if filter.Priority != "" {
		args = append(args, string(filter.Priority))
		query += ` AND priority = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY updated_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list clients")
	}
	defer rows.Close()
	return collectPgClients(rows)
}

func (s *PostgresStore) ListWithFollowUp(ctx context.Context) ([]model.Client, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+pgClientColumns+` FROM clients
		 WHERE next_follow_up IS NOT NULL
		 ORDER BY next_follow_up ASC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list with follow-up")
	}
	defer rows.Close()
	return collectPgClients(rows)
}

func scanPgClient(row pgx.Row) (*model.Client, error) {
	var c model.Client
	var priority, status string
	var interestsJSON []byte
	var lastContact, nextFollowUp *time.Time

	err := row.Scan(
		&c.ID, &c.Name, &c.Phone, &c.PhoneNormalized, &c.WhatsAppNumber,
		&c.Email, &priority, &status, &interestsJSON, &c.Notes,
		&c.BudgetRange, &c.LeadScore, &c.UrgencyScore, &c.DealValue,
		&lastContact, &nextFollowUp, &c.Source, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan client")
	}
	c.Priority = model.PriorityTier(priority)
	c.Status = model.LifecycleStatus(status)
	if len(interestsJSON) > 0 {
		if err := json.Unmarshal(interestsJSON, &c.Interests); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal interests")
		}
	}
	c.LastContact = lastContact
	c.NextFollowUp = nextFollowUp
	return &c, nil
}

func collectPgClients(rows pgx.Rows) ([]model.Client, error) {
	var clients []model.Client
	for rows.Next() {
		c, err := scanPgClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	return clients, eris.Wrap(rows.Err(), "postgres: iterate clients")
}
