package models

import "time"

// Pipeline stages for a sales enquiry.
const (
	EnquiryStageNew       = "NEW"
	EnquiryStageContacted = "CONTACTED"
	EnquiryStageQuoted    = "QUOTED"
	EnquiryStageWon       = "WON"
	EnquiryStageLost      = "LOST"
)

// ValidEnquiryStage reports whether s is one of the pipeline stages.
func ValidEnquiryStage(s string) bool {
	switch s {
	case EnquiryStageNew, EnquiryStageContacted, EnquiryStageQuoted,
		EnquiryStageWon, EnquiryStageLost:
		return true
	}
	return false
}

// Enquiry is a sales-pipeline lead owned by a contact.
type Enquiry struct {
	ID        int        `json:"id"`
	ContactID int        `json:"contact_id"`
	Subject   string     `json:"subject"`
	Stage     string     `json:"stage"`
	Source    string     `json:"source,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

type CreateEnquiryRequest struct {
	ContactID int    `json:"contact_id"`
	Subject   string `json:"subject"`
	Source    string `json:"source,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type UpdateEnquiryRequest struct {
	Subject *string `json:"subject,omitempty"`
	Stage   *string `json:"stage,omitempty"`
	Source  *string `json:"source,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}
