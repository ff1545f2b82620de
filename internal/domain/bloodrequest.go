package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type UrgencyLevel string

const (
	UrgencyCritical  UrgencyLevel = "critical"
	UrgencyUrgent    UrgencyLevel = "urgent"
	UrgencyNormal    UrgencyLevel = "normal"
	UrgencyScheduled UrgencyLevel = "scheduled"
)

func (u UrgencyLevel) IsValid() bool {
	switch u {
	case UrgencyCritical, UrgencyUrgent, UrgencyNormal, UrgencyScheduled:
		return true
	default:
		return false
	}
}

// IsUrgent reports whether notifications for this urgency carry the URGENT
// prefix and metadata flag.
func (u UrgencyLevel) IsUrgent() bool {
	return u == UrgencyCritical || u == UrgencyUrgent
}

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestActive    RequestStatus = "active"
	RequestCompleted RequestStatus = "completed"
	RequestCancelled RequestStatus = "cancelled"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestActive, RequestCompleted, RequestCancelled:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the request still participates in donor matching.
func (s RequestStatus) IsOpen() bool {
	return s == RequestPending || s == RequestActive
}

type BloodRequest struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	RequesterID  uuid.UUID     `json:"requester_id" db:"requester_id"`
	PatientName  string        `json:"patient_name" db:"patient_name"`
	BloodType    BloodType     `json:"blood_type" db:"blood_type"`
	Units        int           `json:"units" db:"units"`
	Hospital     string        `json:"hospital" db:"hospital"`
	Location     string        `json:"location" db:"location"`
	RequiredDate time.Time     `json:"required_date" db:"required_date"`
	ContactName  string        `json:"contact_name" db:"contact_name"`
	ContactPhone string        `json:"contact_phone" db:"contact_phone"`
	UrgencyLevel UrgencyLevel  `json:"urgency_level" db:"urgency_level"`
	Status       RequestStatus `json:"status" db:"status"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}

type CreateBloodRequestInput struct {
	PatientName  string    `json:"patient_name" validate:"required,min=2"`
	BloodType    string    `json:"blood_type" validate:"required"`
	Units        int       `json:"units" validate:"required,min=1,max=10"`
	Hospital     string    `json:"hospital" validate:"required,min=2"`
	Location     string    `json:"location" validate:"required,min=2"`
	RequiredDate time.Time `json:"required_date" validate:"required"`
	ContactName  string    `json:"contact_name" validate:"required,min=2"`
	ContactPhone string    `json:"contact_phone" validate:"required,min=10,max=15"`
	UrgencyLevel string    `json:"urgency_level" validate:"required"`
}

var (
	ErrInvalidBloodType = errors.New("unknown blood type")
	ErrInvalidUrgency   = errors.New("unknown urgency level")
)

// Validate normalizes the input and rejects anything the matching engine
// cannot act on. Urgency defaults to normal when omitted, matching the
// request form's default.
func (in *CreateBloodRequestInput) Validate() error {
	if _, ok := ParseBloodType(in.BloodType); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidBloodType, in.BloodType)
	}
	if in.Units < 1 || in.Units > 10 {
		return fmt.Errorf("units must be between 1 and 10, got %d", in.Units)
	}
	if in.UrgencyLevel == "" {
		in.UrgencyLevel = string(UrgencyNormal)
	}
	if !UrgencyLevel(in.UrgencyLevel).IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidUrgency, in.UrgencyLevel)
	}
	return nil
}
