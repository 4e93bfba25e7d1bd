// Package service handles lead CRUD orchestration: each operation is a
// validation pass followed by a single store call, with store failures
// surfaced as typed errors for the HTTP layer.
//
// The duplicate-check-then-write sequence is not transactional. Two
// concurrent creates with the same contact data can both pass the check; the
// store's unique indexes are the authoritative guard, and a violation there
// surfaces as a store error.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"leads_backend/internal/leads/repository"
	"leads_backend/internal/leads/transport"
	"leads_backend/platform/apperr"
	"leads_backend/platform/phone"

	"github.com/google/uuid"
)

// Defaults applied on create when the caller leaves them out.
const (
	defaultStatus = "Connected"
	defaultTag    = "Lead"
)

// Repository defines the data access interface needed by the service.
// This is a consumer-driven interface - only what the service needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.ContactMatcher
}

// Service handles lead management operations (CRUD).
type Service struct {
	repo Repository
}

// New creates a new lead service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List retrieves all leads.
func (s *Service) List(ctx context.Context) ([]transport.LeadResponse, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Unavailable("failed to fetch leads", err).WithOp("leads.List")
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, toLeadResponse(lead))
	}
	return items, nil
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Unavailable("failed to fetch lead", err).WithOp("leads.GetByID")
	}

	return toLeadResponse(lead), nil
}

// Create validates the candidate lead and inserts it. The store assigns the id.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	fields := leadFields{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone),
	}

	storagePhone, err := s.validateLead(ctx, fields, nil)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	params := repository.CreateLeadParams{
		Name:          fields.Name,
		Email:         fields.Email,
		Phone:         storagePhone,
		Party:         strings.TrimSpace(req.Party),
		Status:        req.Status,
		Tag:           req.Tag,
		LastConnected: time.Now().UTC(),
	}
	if params.Status == "" {
		params.Status = defaultStatus
	}
	if params.Tag == "" {
		params.Tag = defaultTag
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, apperr.Unavailable("failed to create lead", err).WithOp("leads.Create")
	}

	return toLeadResponse(lead), nil
}

// Update merges the partial payload over the current record, re-validates the
// merged state (the record's own id is excluded from the duplicate check, so
// keeping its own email/phone always passes), then writes.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Unavailable("failed to fetch lead", err).WithOp("leads.Update")
	}

	merged := leadFields{
		Name:  current.Name,
		Email: current.Email,
		Phone: current.Phone,
	}
	if req.Name != nil {
		merged.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		merged.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		merged.Phone = strings.TrimSpace(*req.Phone)
	}

	storagePhone, err := s.validateLead(ctx, merged, &id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	params := repository.UpdateLeadParams{
		Party:  req.Party,
		Status: req.Status,
		Tag:    req.Tag,
	}
	if req.Name != nil {
		params.Name = &merged.Name
	}
	if req.Email != nil {
		params.Email = &merged.Email
	}
	if req.Phone != nil {
		params.Phone = &storagePhone
	}

	lead, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Unavailable("failed to update lead", err).WithOp("leads.Update")
	}

	return toLeadResponse(lead), nil
}

// Delete removes a lead. Deletion is irreversible; deleting an absent id is
// NotFound, never an internal failure.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("lead not found")
		}
		return apperr.Unavailable("failed to delete lead", err).WithOp("leads.Delete")
	}
	return nil
}

// CheckDuplicate reports whether the given contact data is already taken.
func (s *Service) CheckDuplicate(ctx context.Context, req transport.CheckDuplicateRequest) (transport.DuplicateCheckResponse, error) {
	email := strings.TrimSpace(req.Email)
	phoneNumber := phone.NormalizeE164(strings.TrimSpace(req.Phone))

	result, err := s.checkDuplicate(ctx, email, phoneNumber, nil)
	if err != nil {
		return transport.DuplicateCheckResponse{}, err
	}

	return transport.DuplicateCheckResponse{
		IsDuplicate: result != NoConflict,
		EmailTaken:  result == EmailConflict || result == BothConflict,
		PhoneTaken:  result == PhoneConflict || result == BothConflict,
	}, nil
}

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:            lead.ID,
		Name:          lead.Name,
		Email:         lead.Email,
		Phone:         lead.Phone,
		Party:         lead.Party,
		Status:        lead.Status,
		Tag:           lead.Tag,
		LastConnected: lead.LastConnected,
		CreatedAt:     lead.CreatedAt,
		UpdatedAt:     lead.UpdatedAt,
	}
}
