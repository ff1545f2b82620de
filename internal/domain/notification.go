package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifRequestMatch NotificationType = "REQUEST_MATCH"
	NotifSystem       NotificationType = "SYSTEM"
)

// Notification is a persisted message to one user. For REQUEST_MATCH the
// (request_id, user_id) pair is unique: dispatching the same request twice
// must not produce a second row for the same donor.
type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	RequestID *uuid.UUID       `json:"request_id,omitempty" db:"request_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Metadata  json.RawMessage  `json:"metadata,omitempty" db:"metadata"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// RequestMatchMetadata is the structured payload carried by REQUEST_MATCH
// notifications so the UI can link back to the request without a join.
type RequestMatchMetadata struct {
	RequestID   uuid.UUID `json:"requestId"`
	BloodType   BloodType `json:"bloodType"`
	Hospital    string    `json:"hospital"`
	Urgent      bool      `json:"urgent"`
	PatientName string    `json:"patientName"`
}
