package services

import (
	"context"
	"strings"

	"crm-backend/internal/models"
)

type ContactStore interface {
	GetContact(ctx context.Context, id int) (*models.Contact, error)
	CreateContact(ctx context.Context, c *models.Contact) error
	UpdateContact(ctx context.Context, c *models.Contact) error
	ListContacts(ctx context.Context, limit, offset int) ([]*models.Contact, int64, error)
}

type ContactService struct {
	Store    ContactStore
	Recorder *Recorder
}

func NewContactService(store ContactStore, recorder *Recorder) *ContactService {
	return &ContactService{Store: store, Recorder: recorder}
}

func (s *ContactService) Create(ctx context.Context, req *models.CreateContactRequest) (*models.Contact, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, models.ErrValidationFailed
	}
	c := &models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Notes:   req.Notes,
	}
	if err := s.Store.CreateContact(ctx, c); err != nil {
		return nil, err
	}
	if _, err := s.Recorder.Record(ctx, models.EntityContact, c.ID, models.ActivityContactCreated,
		models.CreatedPayload{Name: c.Name}); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContactService) Get(ctx context.Context, id int) (*models.Contact, error) {
	return s.Store.GetContact(ctx, id)
}

func (s *ContactService) List(ctx context.Context, limit, offset int) ([]*models.Contact, int64, error) {
	return s.Store.ListContacts(ctx, limit, offset)
}

// Update patches the contact and logs a CONTACT_UPDATED activity carrying
// the field-level diff. A patch that changes nothing writes nothing.
func (s *ContactService) Update(ctx context.Context, id int, req *models.UpdateContactRequest) (*models.Contact, error) {
	c, err := s.Store.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}

	oldVals := map[string]any{}
	newVals := map[string]any{}
	patchString(oldVals, newVals, "name", c.Name, req.Name)
	patchString(oldVals, newVals, "email", c.Email, req.Email)
	patchString(oldVals, newVals, "phone", c.Phone, req.Phone)
	patchString(oldVals, newVals, "company", c.Company, req.Company)
	patchString(oldVals, newVals, "notes", c.Notes, req.Notes)

	changes := Diff(oldVals, newVals)
	if len(changes) == 0 {
		return c, nil
	}

	applyString(&c.Name, req.Name)
	applyString(&c.Email, req.Email)
	applyString(&c.Phone, req.Phone)
	applyString(&c.Company, req.Company)
	applyString(&c.Notes, req.Notes)

	if err := s.Store.UpdateContact(ctx, c); err != nil {
		return nil, err
	}
	if _, err := s.Recorder.Record(ctx, models.EntityContact, c.ID, models.ActivityContactUpdated,
		models.UpdatedPayload{Changes: changes}); err != nil {
		return nil, err
	}
	return c, nil
}

// patchString adds a field to the diff snapshots only when it appears in
// the patch; absent fields are never considered changed.
func patchString(oldVals, newVals map[string]any, field, current string, patch *string) {
	if patch != nil {
		oldVals[field] = current
		newVals[field] = *patch
	}
}

func applyString(dst *string, patch *string) {
	if patch != nil {
		*dst = *patch
	}
}
