package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fever-tracker/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) Create(ctx context.Context, p profiles.Profile) error {
	history, episodes, err := marshalLedger(p)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, name, weight_kg, is_pediatric, created_at, updated_at, history, episodes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		p.ID, p.Name, p.WeightKg, p.IsPediatric, p.CreatedAt, p.UpdatedAt, history, episodes,
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
		SET name = $2, weight_kg = $3, is_pediatric = $4, updated_at = $5, history = $6, episodes = $7
		WHERE id = $1
	`,
		p.ID, p.Name, p.WeightKg, p.IsPediatric, p.UpdatedAt, history, episodes,
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
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
		FROM profiles WHERE id = $1
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
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
			p.ID, p.Name, p.WeightKg, p.IsPediatric, p.CreatedAt, p.UpdatedAt, history, episodes,
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
		p                 profiles.Profile
		history, episodes []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.WeightKg, &p.IsPediatric, &p.CreatedAt, &p.UpdatedAt, &history, &episodes); err != nil {
		return profiles.Profile{}, err
	}
	if err := json.Unmarshal(history, &p.History); err != nil {
		return profiles.Profile{}, fmt.Errorf("postgres: bad history for %s: %w", p.ID, err)
	}
	if err := json.Unmarshal(episodes, &p.Episodes); err != nil {
		return profiles.Profile{}, fmt.Errorf("postgres: bad episodes for %s: %w", p.ID, err)
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
		return nil, nil, fmt.Errorf("postgres: marshal history: %w", err)
	}
	if episodes, err = json.Marshal(p.Episodes); err != nil {
		return nil, nil, fmt.Errorf("postgres: marshal episodes: %w", err)
	}
	return history, episodes, nil
}
