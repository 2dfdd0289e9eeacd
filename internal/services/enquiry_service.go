package services

import (
	"context"
	"strings"

	"crm-backend/internal/models"
)

type EnquiryStore interface {
	GetEnquiry(ctx context.Context, id int) (*models.Enquiry, error)
	CreateEnquiry(ctx context.Context, e *models.Enquiry) error
	UpdateEnquiry(ctx context.Context, e *models.Enquiry) error
	ListEnquiries(ctx context.Context, limit, offset int) ([]*models.Enquiry, int64, error)
}

type EnquiryService struct {
	Store    EnquiryStore
	Contacts ContactStore
	Recorder *Recorder
}

func NewEnquiryService(store EnquiryStore, contacts ContactStore, recorder *Recorder) *EnquiryService {
	return &EnquiryService{Store: store, Contacts: contacts, Recorder: recorder}
}

func (s *EnquiryService) Create(ctx context.Context, req *models.CreateEnquiryRequest) (*models.Enquiry, error) {
	if strings.TrimSpace(req.Subject) == "" {
		return nil, models.ErrValidationFailed
	}
	if _, err := s.Contacts.GetContact(ctx, req.ContactID); err != nil {
		return nil, err
	}
	e := &models.Enquiry{
		ContactID: req.ContactID,
		Subject:   req.Subject,
		Stage:     models.EnquiryStageNew,
		Source:    req.Source,
		Notes:     req.Notes,
	}
	if err := s.Store.CreateEnquiry(ctx, e); err != nil {
		return nil, err
	}
	if _, err := s.Recorder.Record(ctx, models.EntityEnquiry, e.ID, models.ActivityEnquiryCreated,
		models.CreatedPayload{Name: e.Subject}); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EnquiryService) Get(ctx context.Context, id int) (*models.Enquiry, error) {
	return s.Store.GetEnquiry(ctx, id)
}

func (s *EnquiryService) List(ctx context.Context, limit, offset int) ([]*models.Enquiry, int64, error) {
	return s.Store.ListEnquiries(ctx, limit, offset)
}

// Update patches the enquiry. A stage change logs STAGE_CHANGED and
// suppresses the generic ENQUIRY_UPDATED for the same call; other changes
// log the generic diff activity.
func (s *EnquiryService) Update(ctx context.Context, id int, req *models.UpdateEnquiryRequest) (*models.Enquiry, error) {
	e, err := s.Store.GetEnquiry(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Stage != nil && !models.ValidEnquiryStage(*req.Stage) {
		return nil, models.ErrValidationFailed
	}

	oldVals := map[string]any{}
	newVals := map[string]any{}
	patchString(oldVals, newVals, "subject", e.Subject, req.Subject)
	patchString(oldVals, newVals, "stage", e.Stage, req.Stage)
	patchString(oldVals, newVals, "source", e.Source, req.Source)
	patchString(oldVals, newVals, "notes", e.Notes, req.Notes)

	changes := Diff(oldVals, newVals)
	if len(changes) == 0 {
		return e, nil
	}

	oldStage := e.Stage
	applyString(&e.Subject, req.Subject)
	applyString(&e.Stage, req.Stage)
	applyString(&e.Source, req.Source)
	applyString(&e.Notes, req.Notes)

	if err := s.Store.UpdateEnquiry(ctx, e); err != nil {
		return nil, err
	}

	if _, staged := changes["stage"]; staged {
		if _, err := s.Recorder.Record(ctx, models.EntityEnquiry, e.ID, models.ActivityStageChanged,
			models.StatusChangedPayload{From: oldStage, To: e.Stage}); err != nil {
			return nil, err
		}
		return e, nil
	}
	if _, err := s.Recorder.Record(ctx, models.EntityEnquiry, e.ID, models.ActivityEnquiryUpdated,
		models.UpdatedPayload{Changes: changes}); err != nil {
		return nil, err
	}
	return e, nil
}
