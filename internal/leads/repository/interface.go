package repository

import (
	"context"

	"github.com/google/uuid"
)

// LeadReader provides read access to stored leads.
type LeadReader interface {
	List(ctx context.Context) ([]Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
}

// LeadWriter provides write access to stored leads.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContactMatcher finds leads by contact data for duplicate detection.
type ContactMatcher interface {
	FindByContact(ctx context.Context, email, phone string, excludeID *uuid.UUID) ([]ContactMatch, error)
}
