package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"leads_backend/internal/leads/repository"
	"leads_backend/internal/leads/service"
	"leads_backend/internal/leads/transport"
	"leads_backend/platform/httpkit"
	"leads_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errStoreDown = errors.New("dial tcp: connection refused")

// memStore is an in-memory double for the external store client.
type memStore struct {
	leads   []repository.Lead
	failing bool
}

func (m *memStore) List(_ context.Context) ([]repository.Lead, error) {
	if m.failing {
		return nil, errStoreDown
	}
	return append([]repository.Lead{}, m.leads...), nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	if m.failing {
		return repository.Lead{}, errStoreDown
	}
	for _, lead := range m.leads {
		if lead.ID == id {
			return lead, nil
		}
	}
	return repository.Lead{}, repository.ErrNotFound
}

func (m *memStore) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	if m.failing {
		return repository.Lead{}, errStoreDown
	}
	now := time.Now().UTC()
	lead := repository.Lead{
		ID:            uuid.New(),
		Name:          params.Name,
		Email:         params.Email,
		Phone:         params.Phone,
		Party:         params.Party,
		Status:        params.Status,
		Tag:           params.Tag,
		LastConnected: params.LastConnected,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.leads = append(m.leads, lead)
	return lead, nil
}

func (m *memStore) Update(_ context.Context, id uuid.UUID, params repository.UpdateLeadParams) (repository.Lead, error) {
	if m.failing {
		return repository.Lead{}, errStoreDown
	}
	for i, lead := range m.leads {
		if lead.ID != id {
			continue
		}
		if params.Name != nil {
			lead.Name = *params.Name
		}
		if params.Email != nil {
			lead.Email = *params.Email
		}
		if params.Phone != nil {
			lead.Phone = *params.Phone
		}
		if params.Party != nil {
			lead.Party = *params.Party
		}
		if params.Status != nil {
			lead.Status = *params.Status
		}
		if params.Tag != nil {
			lead.Tag = *params.Tag
		}
		lead.UpdatedAt = time.Now().UTC()
		m.leads[i] = lead
		return lead, nil
	}
	return repository.Lead{}, repository.ErrNotFound
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	if m.failing {
		return errStoreDown
	}
	for i, lead := range m.leads {
		if lead.ID == id {
			m.leads = append(m.leads[:i], m.leads[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) FindByContact(_ context.Context, email, phone string, excludeID *uuid.UUID) ([]repository.ContactMatch, error) {
	if m.failing {
		return nil, errStoreDown
	}
	matches := make([]repository.ContactMatch, 0)
	for _, lead := range m.leads {
		if excludeID != nil && lead.ID == *excludeID {
			continue
		}
		if strings.EqualFold(lead.Email, email) || lead.Phone == phone {
			matches = append(matches, repository.ContactMatch{ID: lead.ID, Email: lead.Email, Phone: lead.Phone})
		}
	}
	return matches, nil
}

func newTestRouter(store *memStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	h := New(service.New(store), validator.New())
	h.RegisterRoutes(engine.Group("/api/leads"))

	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeLead(t *testing.T, rec *httptest.ResponseRecorder) transport.LeadResponse {
	t.Helper()
	var lead transport.LeadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &lead); err != nil {
		t.Fatalf("decode lead: %v (body %s)", err, rec.Body.String())
	}
	return lead
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpkit.ErrorResponse {
	t.Helper()
	var resp httpkit.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v (body %s)", err, rec.Body.String())
	}
	return resp
}

func janeBody() map[string]string {
	return map[string]string{
		"name":  "Jane",
		"email": "jane@x.com",
		"phone": "5551234567",
	}
}

func TestLeadLifecycle(t *testing.T) {
	engine := newTestRouter(&memStore{})

	// Create
	rec := doJSON(t, engine, http.MethodPost, "/api/leads", janeBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	created := decodeLead(t, rec)
	if created.ID == uuid.Nil {
		t.Fatalf("expected assigned id")
	}

	// Duplicate email rejected
	dup := janeBody()
	dup["phone"] = "5559876543"
	rec = doJSON(t, engine, http.MethodPost, "/api/leads", dup)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != service.CodeDuplicateEmail {
		t.Fatalf("expected DUPLICATE_EMAIL, got %q", resp.Error)
	}

	// Read back
	rec = doJSON(t, engine, http.MethodGet, "/api/leads/"+created.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeLead(t, rec); got.Email != "jane@x.com" {
		t.Fatalf("expected stored record, got %+v", got)
	}

	// Delete
	rec = doJSON(t, engine, http.MethodDelete, "/api/leads/"+created.ID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	// Gone afterwards
	rec = doJSON(t, engine, http.MethodGet, "/api/leads/"+created.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestList_ReturnsBareArray(t *testing.T) {
	engine := newTestRouter(&memStore{})
	doJSON(t, engine, http.MethodPost, "/api/leads", janeBody())

	rec := doJSON(t, engine, http.MethodGet, "/api/leads", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var items []transport.LeadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("expected a JSON array, got %s", rec.Body.String())
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(items))
	}
}

func TestCreate_MissingFieldReasonCode(t *testing.T) {
	engine := newTestRouter(&memStore{})

	body := janeBody()
	delete(body, "phone")
	rec := doJSON(t, engine, http.MethodPost, "/api/leads", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Error != service.CodeMissingField {
		t.Fatalf("expected MISSING_FIELD, got %q", resp.Error)
	}
	if !strings.Contains(resp.Message, "phone") {
		t.Fatalf("expected message to name the field, got %q", resp.Message)
	}
}

func TestUpdate_OwnEmailSucceeds(t *testing.T) {
	engine := newTestRouter(&memStore{})

	rec := doJSON(t, engine, http.MethodPost, "/api/leads", janeBody())
	created := decodeLead(t, rec)

	rec = doJSON(t, engine, http.MethodPut, "/api/leads/"+created.ID.String(), map[string]string{
		"name":  "Jane Doe",
		"email": "jane@x.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := decodeLead(t, rec); got.Name != "Jane Doe" {
		t.Fatalf("expected updated name, got %+v", got)
	}
}

func TestUpdate_UnknownID(t *testing.T) {
	engine := newTestRouter(&memStore{})

	rec := doJSON(t, engine, http.MethodPut, "/api/leads/"+uuid.NewString(), map[string]string{"name": "x"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDelete_UnknownIDIsNotFoundNotFatal(t *testing.T) {
	engine := newTestRouter(&memStore{})

	rec := doJSON(t, engine, http.MethodDelete, "/api/leads/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestMalformedID(t *testing.T) {
	engine := newTestRouter(&memStore{})

	rec := doJSON(t, engine, http.MethodGet, "/api/leads/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "INVALID_REQUEST" {
		t.Fatalf("expected INVALID_REQUEST, got %q", resp.Error)
	}
}

func TestStoreFailureSurfacesAs503(t *testing.T) {
	store := &memStore{failing: true}
	engine := newTestRouter(store)

	for _, tc := range []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/api/leads", nil},
		{http.MethodGet, "/api/leads/" + uuid.NewString(), nil},
		{http.MethodPost, "/api/leads", janeBody()},
		{http.MethodDelete, "/api/leads/" + uuid.NewString(), nil},
		{http.MethodGet, "/api/leads/check-duplicate?email=jane@x.com&phone=5551234567", nil},
	} {
		rec := doJSON(t, engine, tc.method, tc.path, tc.body)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s %s: expected 503, got %d (%s)", tc.method, tc.path, rec.Code, rec.Body.String())
		}
		if resp := decodeError(t, rec); resp.Error != "STORE_UNAVAILABLE" {
			t.Fatalf("%s %s: expected STORE_UNAVAILABLE, got %q", tc.method, tc.path, resp.Error)
		}
	}
}

func TestCheckDuplicate(t *testing.T) {
	engine := newTestRouter(&memStore{})
	doJSON(t, engine, http.MethodPost, "/api/leads", janeBody())

	rec := doJSON(t, engine, http.MethodGet, "/api/leads/check-duplicate?email=jane@x.com&phone=5550000000", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var result transport.DuplicateCheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.IsDuplicate || !result.EmailTaken || result.PhoneTaken {
		t.Fatalf("expected email-only conflict, got %+v", result)
	}
}

func TestCreate_RejectsMalformedBody(t *testing.T) {
	engine := newTestRouter(&memStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
