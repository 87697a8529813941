package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/model"
)

// UpsertUser finds a user by external_id, creating one if absent, per
// SPEC_FULL.md's "first-contact user upsert" supplemented feature (the
// JWT subject is the external_id; email/display_name refresh on every
// call so a provider-side profile edit is picked up).
func (s *Store) UpsertUser(ctx context.Context, externalID, email, displayName string) (*model.User, error) {
	var u model.User
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, external_id, email, display_name, is_ai)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (external_id) DO UPDATE
			SET email = EXCLUDED.email, display_name = EXCLUDED.display_name, updated_at = now()
		RETURNING id, external_id, email, display_name, is_ai, created_at, updated_at
	`, uuid.NewString(), externalID, email, displayName)

	if err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.DisplayName, &u.IsAI, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "upsert user %s", externalID)
	}
	return &u, nil
}

// CreateAIUser inserts a fresh AI-controlled user, per spec.md §4.1's
// add_ai command. The display name is displayName as given; the
// external_id is "ai:" followed by the new user's id.
func (s *Store) CreateAIUser(ctx context.Context, displayName string) (*model.User, error) {
	id := uuid.NewString()
	var u model.User
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, external_id, email, display_name, is_ai)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, external_id, email, display_name, is_ai, created_at, updated_at
	`, id, "ai:"+id, "ai+"+id+"@nommie.local", displayName)

	if err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.DisplayName, &u.IsAI, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "create AI user")
	}
	return &u, nil
}

// GetUser looks up a user by primary key.
func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	row := s.pool.QueryRow(ctx, `
		SELECT id, external_id, email, display_name, is_ai, created_at, updated_at
		FROM users WHERE id = $1
	`, id)
	if err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.DisplayName, &u.IsAI, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apierrors.New(apierrors.NotFound, "user %s not found", id)
		}
		return nil, apierrors.Wrap(apierrors.TransientStorage, err, "get user %s", id)
	}
	return &u, nil
}
