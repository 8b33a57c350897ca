package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/boutique-crm/clientele-cli/internal/identity"
	"github.com/boutique-crm/clientele-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS clients (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	name_folded      TEXT NOT NULL,
	phone            TEXT,
	phone_normalized TEXT,
	phone_suffix     TEXT,
	whatsapp_number  TEXT,
	whatsapp_suffix  TEXT,
	email            TEXT,
	priority         TEXT NOT NULL DEFAULT 'medium',
	status           TEXT NOT NULL DEFAULT 'prospect',
	interests        TEXT,
	notes            TEXT,
	budget_range     TEXT,
	lead_score       INTEGER NOT NULL DEFAULT 50,
	urgency_score    INTEGER NOT NULL DEFAULT 0,
	deal_value       REAL NOT NULL DEFAULT 0,
	last_contact     DATETIME,
	next_follow_up   DATETIME,
	source           TEXT,
	created_at       DATETIME NOT NULL,
	updated_at       DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_clients_phone_suffix ON clients(phone_suffix);
CREATE INDEX IF NOT EXISTS idx_clients_whatsapp_suffix ON clients(whatsapp_suffix);
CREATE INDEX IF NOT EXISTS idx_clients_name_folded ON clients(name_folded);
CREATE INDEX IF NOT EXISTS idx_clients_next_follow_up ON clients(next_follow_up);
CREATE INDEX IF NOT EXISTS idx_clients_status ON clients(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const clientColumns = `id, name, phone, phone_normalized, whatsapp_number, email,
	priority, status, interests, notes, budget_range, lead_score,
	urgency_score, deal_value, last_contact, next_follow_up, source,
	created_at, updated_at`

func (s *SQLiteStore) Upsert(ctx context.Context, c *model.Client) (*model.Client, error) {
	interestsJSON, err := marshalInterests(c.Interests)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO clients (
			id, name, name_folded, phone, phone_normalized, phone_suffix,
			whatsapp_number, whatsapp_suffix, email, priority, status,
			interests, notes, budget_range, lead_score, urgency_score,
			deal_value, last_contact, next_follow_up, source, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			name_folded = excluded.name_folded,
			phone = excluded.phone,
			phone_normalized = excluded.phone_normalized,
			phone_suffix = excluded.phone_suffix,
			whatsapp_number = excluded.whatsapp_number,
			whatsapp_suffix = excluded.whatsapp_suffix,
			email = excluded.email,
			priority = excluded.priority,
			status = excluded.status,
			interests = excluded.interests,
			notes = excluded.notes,
			budget_range = excluded.budget_range,
			lead_score = excluded.lead_score,
			urgency_score = excluded.urgency_score,
			deal_value = excluded.deal_value,
			last_contact = excluded.last_contact,
			next_follow_up = excluded.next_follow_up,
			source = excluded.source,
			updated_at = excluded.updated_at`,
		c.ID, c.Name, identity.FoldName(c.Name), c.Phone, c.PhoneNormalized,
		identity.PhoneSuffix(c.PhoneNormalized), c.WhatsAppNumber,
		identity.PhoneSuffix(identity.NormalizePhone(c.WhatsAppNumber)),
		c.Email, string(c.Priority), string(c.Status), interestsJSON,
		c.Notes, c.BudgetRange, c.LeadScore, c.UrgencyScore, c.DealValue,
		nullTime(c.LastContact), nullTime(c.NextFollowUp), c.Source,
		c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: upsert client %s", c.ID)
	}
	return c, nil
}

func (s *SQLiteStore) GetClient(ctx context.Context, id string) (*model.Client, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	c, err := scanClient(row)
	if err == errNoClient {
		return nil, eris.Errorf("sqlite: client not found: %s", id)
	}
	return c, err
}

func (s *SQLiteStore) FindByPhoneSuffix(ctx context.Context, suffix string) ([]model.Client, error) {
	if suffix == "" {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients
		 WHERE phone_suffix = ? OR whatsapp_suffix = ?
		 ORDER BY created_at ASC`,
		suffix, suffix,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: find by phone suffix")
	}
	defer rows.Close()
	return collectClients(rows)
}

func (s *SQLiteStore) FindByNameExact(ctx context.Context, foldedName string) (*model.Client, error) {
	if foldedName == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients
		 WHERE name_folded = ? ORDER BY created_at ASC LIMIT 1`,
		foldedName,
	)
	c, err := scanClient(row)
	if err == errNoClient {
		return nil, nil
	}
	return c, err
}

func (s *SQLiteStore) ListClients(ctx context.Context, filter ClientFilter) ([]model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, string(filter.Priority))
	}
	query += ` ORDER BY updated_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list clients")
	}
	defer rows.Close()
	return collectClients(rows)
}

func (s *SQLiteStore) ListWithFollowUp(ctx context.Context) ([]model.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients
		 WHERE next_follow_up IS NOT NULL
		 ORDER BY next_follow_up ASC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list with follow-up")
	}
	defer rows.Close()
	return collectClients(rows)
}

// helpers

var errNoClient = eris.New("no client row")

type scannable interface {
	Scan(dest ...any) error
}

func scanClient(row scannable) (*model.Client, error) {
	var c model.Client
	var interestsJSON sql.NullString
	var lastContact, nextFollowUp sql.NullTime

	err := row.Scan(
		&c.ID, &c.Name, &c.Phone, &c.PhoneNormalized, &c.WhatsAppNumber,
		&c.Email, &c.Priority, &c.Status, &interestsJSON, &c.Notes,
		&c.BudgetRange, &c.LeadScore, &c.UrgencyScore, &c.DealValue,
		&lastContact, &nextFollowUp, &c.Source, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errNoClient
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan client")
	}

	if interestsJSON.Valid && interestsJSON.String != "" {
		if err := json.Unmarshal([]byte(interestsJSON.String), &c.Interests); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal interests")
		}
	}
	if lastContact.Valid {
		t := lastContact.Time
		c.LastContact = &t
	}
	if nextFollowUp.Valid {
		t := nextFollowUp.Time
		c.NextFollowUp = &t
	}
	return &c, nil
}

func collectClients(rows *sql.Rows) ([]model.Client, error) {
	var clients []model.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	return clients, eris.Wrap(rows.Err(), "sqlite: iterate clients")
}

func marshalInterests(interests []string) (string, error) {
	if len(interests) == 0 {
		return "", nil
	}
	data, err := json.Marshal(interests)
	if err != nil {
		return "", eris.Wrap(err, "marshal interests")
	}
	return string(data), nil
}

func nullTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC()
}
