package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fever-tracker/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

// History and episodes are stored as JSON documents: the ledger is always
// read and written whole, so there is nothing to gain from normalizing it.
func (r *ProfilesRepo) Create(ctx context.Context, p profiles.Profile) error {
	history, episodes, err := marshalLedger(p)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, name, weight_kg, is_pediatric, created_at, updated_at, history, episodes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.Name, p.WeightKg, boolToInt(p.IsPediatric),
		p.CreatedAt.UTC().Format(time.RFC3339Nano),
		p.UpdatedAt.UTC().Format(time.RFC3339Nano),
		history, episodes,
	)
	return err
}

func (r *ProfilesRepo) Update(ctx context.Context, p profiles.Profile) error {
	history, episodes, err := marshalLedger(p)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET name = ?, weight_kg = ?, is_pediatric = ?, updated_at = ?, history = ?, episodes = ?
		WHERE id = ?
	`,
		p.Name, p.WeightKg, boolToInt(p.IsPediatric),
		p.UpdatedAt.UTC().Format(time.RFC3339Nano),
		history, episodes, p.ID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return profiles.ErrNotFound
	}
	return nil
}

func (r *ProfilesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return profiles.ErrNotFound
	}
	return nil
}

func (r *ProfilesRepo) GetByID(ctx context.Context, id string) (profiles.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, weight_kg, is_pediatric, created_at, updated_at, history, episodes
		FROM profiles WHERE id = ?
	`, id)

	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return profiles.Profile{}, profiles.ErrNotFound
	}
	return p, err
}

func (r *ProfilesRepo) List(ctx context.Context) ([]profiles.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, weight_kg, is_pediatric, created_at, updated_at, history, episodes
		FROM profiles ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profiles.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ReplaceAll swaps the table contents in one transaction so a failed import
// rolls back to the previous state.
func (r *ProfilesRepo) ReplaceAll(ctx context.Context, ps []profiles.Profile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles`); err != nil {
		return err
	}
	for _, p := range ps {
		history, episodes, err := marshalLedger(p)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO profiles (id, name, weight_kg, is_pediatric, created_at, updated_at, history, episodes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			p.ID, p.Name, p.WeightKg, boolToInt(p.IsPediatric),
			p.CreatedAt.UTC().Format(time.RFC3339Nano),
			p.UpdatedAt.UTC().Format(time.RFC3339Nano),
			history, episodes,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (profiles.Profile, error) {
	var (
		p                    profiles.Profile
		ped                  int
		createdAt, updatedAt string
		history, episodes    []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.WeightKg, &ped, &createdAt, &updatedAt, &history, &episodes); err != nil {
		return profiles.Profile{}, err
	}

	p.IsPediatric = ped != 0

	var err error
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return profiles.Profile{}, fmt.Errorf("sqlite: bad created_at for %s: %w", p.ID, err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return profiles.Profile{}, fmt.Errorf("sqlite: bad updated_at for %s: %w", p.ID, err)
	}
	if err := json.Unmarshal(history, &p.History); err != nil {
		return profiles.Profile{}, fmt.Errorf("sqlite: bad history for %s: %w", p.ID, err)
	}
	if err := json.Unmarshal(episodes, &p.Episodes); err != nil {
		return profiles.Profile{}, fmt.Errorf("sqlite: bad episodes for %s: %w", p.ID, err)
	}
	return p, nil
}

func marshalLedger(p profiles.Profile) (history, episodes []byte, err error) {
	if p.History == nil {
		p.History = []profiles.Entry{}
	}
	if p.Episodes == nil {
		p.Episodes = []profiles.Episode{}
	}
	if history, err = json.Marshal(p.History); err != nil {
		return nil, nil, fmt.Errorf("sqlite: marshal history: %w", err)
	}
	if episodes, err = json.Marshal(p.Episodes); err != nil {
		return nil, nil, fmt.Errorf("sqlite: marshal episodes: %w", err)
	}
	return history, episodes, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
