package domain

import (
	"time"

	"github.com/google/uuid"
)

// Donor is a user's donation profile. One per user; availability is the soft
// on/off switch, the row itself is never deleted by normal flows.
type Donor struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	UserID           uuid.UUID  `json:"user_id" db:"user_id"`
	BloodType        BloodType  `json:"blood_type" db:"blood_type"`
	IsAvailable      bool       `json:"is_available" db:"is_available"`
	ContactNumber    string     `json:"contact_number" db:"contact_number"`
	Location         string     `json:"location" db:"location"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty" db:"last_donation_date"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

type RegisterDonorInput struct {
	BloodType     string `json:"blood_type" validate:"required"`
	ContactNumber string `json:"contact_number" validate:"required,min=6"`
	Location      string `json:"location" validate:"required,min=2"`
}

type UpdateDonorInput struct {
	IsAvailable   *bool   `json:"is_available,omitempty"`
	ContactNumber *string `json:"contact_number,omitempty"`
	Location      *string `json:"location,omitempty"`
}
