// Package repository is the store client for the leads context. All
// persistence, indexing and durability live in the external Postgres service;
// this package only issues queries against it.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

const leadColumns = "id, name, email, phone, party, status, tag, last_connected, created_at, updated_at"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID            uuid.UUID
	Name          string
	Email         string
	Phone         string
	Party         string
	Status        string
	Tag           string
	LastConnected time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ContactMatch is the slice of a lead used for duplicate detection.
type ContactMatch struct {
	ID    uuid.UUID
	Email string
	Phone string
}

type CreateLeadParams struct {
	Name          string
	Email         string
	Phone         string
	Party         string
	Status        string
	Tag           string
	LastConnected time.Time
}

type UpdateLeadParams struct {
	Name   *string
	Email  *string
	Phone  *string
	Party  *string
	Status *string
	Tag    *string
}

func (r *Repository) List(ctx context.Context) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		var lead Lead
		if err := scanLead(rows.Scan, &lead); err != nil {
			return nil, err
		}
		items = append(items, lead)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	var lead Lead
	err := scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE id = $1
	`, id).Scan, &lead)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	var lead Lead
	err := scanLead(r.pool.QueryRow(ctx, `
		INSERT INTO leads (name, email, phone, party, status, tag, last_connected)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+leadColumns+`
	`,
		params.Name, params.Email, params.Phone, params.Party,
		params.Status, params.Tag, params.LastConnected,
	).Scan, &lead)
	if err != nil {
		return Lead{}, err
	}

	return lead, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{params.Name != nil, "name", derefString(params.Name)},
		{params.Email != nil, "email", derefString(params.Email)},
		{params.Phone != nil, "phone", derefString(params.Phone)},
		{params.Party != nil, "party", derefString(params.Party)},
		{params.Status != nil, "status", derefString(params.Status)},
		{params.Tag != nil, "tag", derefString(params.Tag)},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE leads SET %s
		WHERE id = $%d
		RETURNING `+leadColumns+`
	`, strings.Join(setClauses, ", "), argIdx)

	var lead Lead
	err := scanLead(r.pool.QueryRow(ctx, query, args...).Scan, &lead)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByContact returns every lead whose email or phone matches, optionally
// excluding one record (the record being updated keeps its own values).
// Email comparison is case-insensitive to mirror the store's unique index.
func (r *Repository) FindByContact(ctx context.Context, email, phone string, excludeID *uuid.UUID) ([]ContactMatch, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, phone
		FROM leads
		WHERE (lower(email) = lower($1) OR phone = $2)
		  AND ($3::uuid IS NULL OR id <> $3)
	`, email, phone, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]ContactMatch, 0)
	for rows.Next() {
		var match ContactMatch
		if err := rows.Scan(&match.ID, &match.Email, &match.Phone); err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return matches, nil
}

func scanLead(scan func(dest ...interface{}) error, lead *Lead) error {
	return scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Party,
		&lead.Status, &lead.Tag, &lead.LastConnected,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
}

func derefString(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
