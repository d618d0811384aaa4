// Package domain holds the certificate model, the pipeline inputs and the ports
package domain

import (
	"strings"
	"time"

	perr "certifica/internal/platform/errors"
)

// Status is the validation state of a certificate
type Status string

// Statuses; APPROVED and DENIED are decisions, PENDING is only ever initial
const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusDenied   Status = "DENIED"
)

// IsDecision reports whether s may be applied by an admin
func (s Status) IsDecision() bool { return s == StatusApproved || s == StatusDenied }

// ParseDecision accepts APPROVED or DENIED in any case
func ParseDecision(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsDecision() {
		return "", perr.FieldErrf("status", "status must be APPROVED or DENIED")
	}
	return st, nil
}

// Category is the closed set of activity kinds
type Category string

// Categories
const (
	CategoryTeaching              Category = "TEACHING"
	CategoryResearch              Category = "RESEARCH"
	CategoryExtension             Category = "EXTENSION"
	CategoryMonitoring            Category = "MONITORING"
	CategoryInternship            Category = "INTERNSHIP"
	CategoryCultural              Category = "CULTURAL"
	CategorySports                Category = "SPORTS"
	CategoryStudentRepresentation Category = "STUDENT_REPRESENTATION"
	CategoryOther                 Category = "OTHER"
)

// Categories lists every accepted category in declaration order
var Categories = []Category{
	CategoryTeaching, CategoryResearch, CategoryExtension, CategoryMonitoring, CategoryInternship,
	CategoryCultural, CategorySports, CategoryStudentRepresentation, CategoryOther,
}

// ParseCategory accepts a category name in any case
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, k := range Categories {
		if c == k {
			return c, nil
		}
	}
	return "", perr.FieldErrf("category", "unknown category %q", s)
}

// Certificate is the read model returned to callers
type Certificate struct {
	ID                  string     `json:"id"                            example:"0b9f2c1e-6d0a-4b8e-9f1c-2a7d5e4c3b21"`
	SubmittedBy         string     `json:"submittedBy"                   example:"ana@ufu.br"`
	Title               string     `json:"title"                         example:"Monitoria de Calculo I"`
	Category            Category   `json:"category"                      example:"MONITORING"`
	DurationInHours     int        `json:"durationInHours"               example:"60"`
	ExpirationDate      *Date      `json:"expirationDate,omitempty"      swaggertype:"string" example:"2026-12-31"`
	ObjectKey           string     `json:"objectKey"                     example:"01J9Z3K8X4V7N2Q5R6T8W0Y1AB.pdf"`
	FileURL             string     `json:"fileUrl"`
	OriginalFilename    string     `json:"originalFilename"              example:"monitoria.pdf"`
	FileType            string     `json:"fileType"                      example:"application/pdf"`
	SizeBytes           int64      `json:"sizeBytes"                     example:"48213"`
	Checksum            string     `json:"checksumSha256"`
	Status              Status     `json:"status"                        example:"PENDING"`
	RejectionReason     *string    `json:"rejectionReason"`
	ValidatedBy         *string    `json:"validatedBy"`
	UploadTimestamp     time.Time  `json:"uploadTimestamp"`
	ValidationTimestamp *time.Time `json:"validationTimestamp"`
	EnqueuedAt          *time.Time `json:"-"`
	ProcessedAt         *time.Time `json:"processedAt,omitempty"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// NewCertificate is the construction record the pipeline persists
// It has no status or validator fields; the store creates every row PENDING
type NewCertificate struct {
	SubmittedBy      string
	Title            string
	Category         Category
	DurationInHours  int
	ExpirationDate   *Date
	ObjectKey        string
	FileURL          string
	OriginalFilename string
	FileType         string
	SizeBytes        int64
	Checksum         string
	UploadedAt       time.Time
}

// Validation is the admin update path; Reason is nil unless Status is DENIED
type Validation struct {
	Status      Status
	ValidatedBy string
	Reason      *string
	At          time.Time
}

// ProcessingMessage is the payload published for the processor
type ProcessingMessage struct {
	CertificateID string `json:"certificateId"`
	ObjectKey     string `json:"objectKey"`
}
