package models

import (
	"time"
)

// AttachmentSlot identifies one of the named attachment fields on a student
// profile.
type AttachmentSlot string

const (
	SlotCV                AttachmentSlot = "cv"
	SlotIdentityFront     AttachmentSlot = "identity-front"
	SlotIdentityBack      AttachmentSlot = "identity-back"
	SlotRIB               AttachmentSlot = "rib"
	SlotSchoolCertificate AttachmentSlot = "school-certificate"
	SlotHealthCard        AttachmentSlot = "health-card"
)

// CustomAttachment is one entry of the variable-length attachment list a
// student can add beyond the named slots.
type CustomAttachment struct {
	Label       string `json:"label" db:"label"`
	URL         string `json:"url" db:"url"`
	StoragePath string `json:"storage_path" db:"storage_path"`
}

// StudentProfile carries the per-user attachment fields the namespace
// synthesizes personal documents from. The fields store download URLs only;
// the source system keeps no size metadata for them.
type StudentProfile struct {
	UserID               string             `json:"user_id" db:"user_id"`
	StructureID          string             `json:"structure_id" db:"structure_id"`
	FirstName            string             `json:"first_name" db:"first_name"`
	LastName             string             `json:"last_name" db:"last_name"`
	CVURL                string             `json:"cv_url" db:"cv_url"`
	IdentityFrontURL     string             `json:"identity_front_url" db:"identity_front_url"`
	IdentityBackURL      string             `json:"identity_back_url" db:"identity_back_url"`
	RIBURL               string             `json:"rib_url" db:"rib_url"`
	SchoolCertificateURL string             `json:"school_certificate_url" db:"school_certificate_url"`
	HealthCardURL        string             `json:"health_card_url" db:"health_card_url"`
	CustomAttachments    []CustomAttachment `json:"custom_attachments" db:"custom_attachments"`
	UpdatedAt            time.Time          `json:"updated_at" db:"updated_at"`
}

// SlotURL returns the URL stored in the named slot, empty if the slot is
// unset or unknown.
func (p *StudentProfile) SlotURL(slot AttachmentSlot) string {
	switch slot {
	case SlotCV:
		return p.CVURL
	case SlotIdentityFront:
		return p.IdentityFrontURL
	case SlotIdentityBack:
		return p.IdentityBackURL
	case SlotRIB:
		return p.RIBURL
	case SlotSchoolCertificate:
		return p.SchoolCertificateURL
	case SlotHealthCard:
		return p.HealthCardURL
	default:
		return ""
	}
}

// ClearSlot empties the named slot. Unknown slots are ignored.
func (p *StudentProfile) ClearSlot(slot AttachmentSlot) {
	switch slot {
	case SlotCV:
		p.CVURL = ""
	case SlotIdentityFront:
		p.IdentityFrontURL = ""
	case SlotIdentityBack:
		p.IdentityBackURL = ""
	case SlotRIB:
		p.RIBURL = ""
	case SlotSchoolCertificate:
		p.SchoolCertificateURL = ""
	case SlotHealthCard:
		p.HealthCardURL = ""
	}
}

// DisplayName is the student's name as shown on synthesized documents.
func (p *StudentProfile) DisplayName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
