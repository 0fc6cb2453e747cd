// Package pgstore is the Postgres implementation of store.Store.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/orin-ai/agentdash/internal/store"
	"github.com/orin-ai/agentdash/pkg/flow"
	"github.com/orin-ai/agentdash/pkg/leaselock"
	"github.com/orin-ai/agentdash/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var log = logger.WithPrefix("store")

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

// Open migrates the schema, connects and seeds an empty database.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if err := Migrate(databaseURL); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.Seed(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Seed loads the embedded seed when the agents table is empty. Concurrent
// starters serialise on a lease lock so only one of them inserts.
func (s *Store) Seed(ctx context.Context) error {
	return leaselock.New(s.pool).WithLease(ctx, seedLock, leaselock.Options{
		TTL:   30 * time.Second,
		Wait:  true,
		Owner: "seed-",
	}, s.seed)
}

const seedLock = "agentdash:seed"

func (s *Store) seed(ctx context.Context) error {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM agents`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count agents: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed, err := store.LoadSeed()
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, a := range seed.Agents {
		tree, err := json.Marshal(a.QuestionClass)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO agents (id, agent_name, question_class, question_class_system_prompt,
				final_response_system_prompt, suggested_questions_system_prompt)
			VALUES ($1, $2, $3::json, $4, $5, $6)`,
			a.ID, a.AgentName, string(tree), a.QuestionClassSystemPrompt,
			a.FinalResponseSystemPrompt, a.SuggestedQuestionsSystemPrompt)
		if err != nil {
			return fmt.Errorf("failed to seed agent %d: %w", a.ID, err)
		}
	}
	if _, err := tx.Exec(ctx, `SELECT setval(pg_get_serial_sequence('agents', 'id'), GREATEST((SELECT max(id) FROM agents), 1))`); err != nil {
		return fmt.Errorf("failed to advance agent ids: %w", err)
	}

	for _, st := range seed.Settings {
		_, err := tx.Exec(ctx, `INSERT INTO notification_settings (setting, value) VALUES ($1, $2) ON CONFLICT (setting) DO NOTHING`, st.Setting, st.Value)
		if err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", st.Setting, err)
		}
	}

	for _, n := range seed.Numbers {
		_, err := tx.Exec(ctx, `INSERT INTO whatsapp_numbers (phone_number, agent_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, n.PhoneNumber, n.AgentID)
		if err != nil {
			return fmt.Errorf("failed to seed number %s: %w", n.PhoneNumber, err)
		}
	}

	for _, phone := range seed.Contacts {
		p, ok := seed.Profiles[phone]
		_, err := tx.Exec(ctx, `
			INSERT INTO whatsapp_contacts (phone_number, contact_name, description, profile_image, has_profile)
			VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`,
			phone, p.ContactName, p.Description, p.ProfileImage, ok)
		if err != nil {
			return fmt.Errorf("failed to seed contact %s: %w", phone, err)
		}
		for _, m := range seed.Chats[phone] {
			_, err := tx.Exec(ctx, `INSERT INTO whatsapp_messages (phone_number, role, content, sent_at) VALUES ($1, $2, $3, $4)`,
				phone, m.Role, m.Content, m.Timestamp)
			if err != nil {
				return fmt.Errorf("failed to seed chat %s: %w", phone, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	log.Info("Seeded database", "agents", len(seed.Agents), "settings", len(seed.Settings))
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

const agentColumns = `id, agent_name, question_class, question_class_system_prompt,
	final_response_system_prompt, suggested_questions_system_prompt`

func scanAgent(row pgx.Row) (*store.Agent, error) {
	var (
		a    store.Agent
		tree []byte
	)
	err := row.Scan(&a.ID, &a.AgentName, &tree, &a.QuestionClassSystemPrompt,
		&a.FinalResponseSystemPrompt, &a.SuggestedQuestionsSystemPrompt)
	if err != nil {
		return nil, err
	}
	a.QuestionClass = flow.ParseTree(tree)
	return &a, nil
}

func (s *Store) ListAgents(ctx context.Context) ([]store.AgentSummary, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, agent_name FROM agents ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.AgentSummary, error) {
		var a store.AgentSummary
		err := row.Scan(&a.ID, &a.AgentName)
		return a, err
	})
}

func (s *Store) GetAgent(ctx context.Context, id int64) (*store.Agent, error) {
	a, err := scanAgent(s.pool.QueryRow(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("agent %d", id))
	}
	return a, nil
}

func (s *Store) CreateAgent(ctx context.Context, a *store.Agent) (*store.Agent, error) {
	tree, err := json.Marshal(a.QuestionClass)
	if err != nil {
		return nil, err
	}
	return scanAgent(s.pool.QueryRow(ctx, `
		INSERT INTO agents (agent_name, question_class, question_class_system_prompt,
			final_response_system_prompt, suggested_questions_system_prompt)
		VALUES ($1, $2::json, $3, $4, $5)
		RETURNING `+agentColumns,
		a.AgentName, string(tree), a.QuestionClassSystemPrompt,
		a.FinalResponseSystemPrompt, a.SuggestedQuestionsSystemPrompt))
}

// UpdateAgent merges patch under a row lock.
func (s *Store) UpdateAgent(ctx context.Context, id int64, patch store.AgentPatch) (*store.Agent, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	a, err := scanAgent(tx.QueryRow(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("agent %d", id))
	}
	patch.Apply(a)

	tree, err := json.Marshal(a.QuestionClass)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx, `
		UPDATE agents SET agent_name = $2, question_class = $3::json, question_class_system_prompt = $4,
			final_response_system_prompt = $5, suggested_questions_system_prompt = $6
		WHERE id = $1`,
		id, a.AgentName, string(tree), a.QuestionClassSystemPrompt,
		a.FinalResponseSystemPrompt, a.SuggestedQuestionsSystemPrompt)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) DeleteAgent(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM agents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("agent %d: %w", id, store.ErrNotFound)
	}
	return nil
}

func scanSetting(row pgx.Row) (*store.Setting, error) {
	var st store.Setting
	if err := row.Scan(&st.ID, &st.Setting, &st.Value); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) ListSettings(ctx context.Context) ([]store.Setting, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, setting, value FROM notification_settings ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[store.Setting])
}

func (s *Store) GetSetting(ctx context.Context, name string) (*store.Setting, error) {
	st, err := scanSetting(s.pool.QueryRow(ctx, `SELECT id, setting, value FROM notification_settings WHERE setting = $1`, name))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("setting %q", name))
	}
	return st, nil
}

func (s *Store) CreateSetting(ctx context.Context, name, value string) (*store.Setting, error) {
	st, err := scanSetting(s.pool.QueryRow(ctx,
		`INSERT INTO notification_settings (setting, value) VALUES ($1, $2) RETURNING id, setting, value`, name, value))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("setting %q: %w", name, store.ErrConflict)
	}
	return st, err
}

func (s *Store) UpdateSetting(ctx context.Context, name, value string) (*store.Setting, error) {
	st, err := scanSetting(s.pool.QueryRow(ctx,
		`UPDATE notification_settings SET value = $2 WHERE setting = $1 RETURNING id, setting, value`, name, value))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("setting %q", name))
	}
	return st, nil
}

func (s *Store) DeleteSetting(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM notification_settings WHERE setting = $1`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("setting %q: %w", name, store.ErrNotFound)
	}
	return nil
}

const numberQuery = `
	SELECT n.phone_number, n.agent_id, a.agent_name
	FROM whatsapp_numbers n LEFT JOIN agents a ON a.id = n.agent_id`

func scanNumber(row pgx.Row) (*store.WhatsappNumber, error) {
	var n store.WhatsappNumber
	if err := row.Scan(&n.PhoneNumber, &n.AgentID, &n.AgentName); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) ListNumbers(ctx context.Context) ([]store.WhatsappNumber, error) {
	rows, err := s.pool.Query(ctx, numberQuery+` ORDER BY n.position`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.WhatsappNumber, error) {
		n, err := scanNumber(row)
		if err != nil {
			return store.WhatsappNumber{}, err
		}
		return *n, nil
	})
}

func (s *Store) AssignAgent(ctx context.Context, phone string, agentID *int64) (*store.WhatsappNumber, error) {
	if agentID != nil {
		if _, err := s.GetAgent(ctx, *agentID); err != nil {
			return nil, err
		}
	}
	tag, err := s.pool.Exec(ctx, `UPDATE whatsapp_numbers SET agent_id = $2 WHERE phone_number = $1`, phone, agentID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("number %s: %w", phone, store.ErrNotFound)
	}
	n, err := scanNumber(s.pool.QueryRow(ctx, numberQuery+` WHERE n.phone_number = $1`, phone))
	if err != nil {
		return nil, notFound(err, "number "+phone)
	}
	return n, nil
}

func (s *Store) ListContacts(ctx context.Context) ([]store.Contact, error) {
	rows, err := s.pool.Query(ctx, `SELECT phone_number FROM whatsapp_contacts ORDER BY position`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[store.Contact])
}

func (s *Store) ChatHistory(ctx context.Context, phone string) ([]store.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT role, content, sent_at FROM whatsapp_messages WHERE phone_number = $1 ORDER BY id`, phone)
	if err != nil {
		return nil, err
	}
	msgs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[store.Message])
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []store.Message{}
	}
	return msgs, nil
}

func (s *Store) AppendMessage(ctx context.Context, phone string, m store.Message) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO whatsapp_contacts (phone_number) VALUES ($1) ON CONFLICT DO NOTHING`, phone); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `INSERT INTO whatsapp_messages (phone_number, role, content, sent_at) VALUES ($1, $2, $3, $4)`,
		phone, m.Role, m.Content, m.Timestamp)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) Profile(ctx context.Context, phone string) (*store.Profile, error) {
	var p store.Profile
	err := s.pool.QueryRow(ctx, `
		SELECT profile_image, contact_name, description FROM whatsapp_contacts
		WHERE phone_number = $1 AND has_profile`, phone).Scan(&p.ProfileImage, &p.ContactName, &p.Description)
	if err != nil {
		return nil, notFound(err, "profile "+phone)
	}
	return &p, nil
}

var _ store.Store = (*Store)(nil)
