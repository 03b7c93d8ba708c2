package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign is a time-boxed assessment round applying one maturity model
// across the service catalog.
type Campaign struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	MaturityModel string         `db:"maturity_model" json:"maturity_model"`
	Status        CampaignStatus `db:"status" json:"status"`
	StartsAt      *time.Time     `db:"starts_at" json:"starts_at,omitempty"`
	EndsAt        *time.Time     `db:"ends_at" json:"ends_at,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// Journey is the top level of the catalog containment hierarchy.
type Journey struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Activity groups services within a journey.
type Activity struct {
	ID          uuid.UUID `db:"id" json:"id"`
	JourneyID   uuid.UUID `db:"journey_id" json:"journey_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Service is the unit whose evaluations are scored.
type Service struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ActivityID  uuid.UUID `db:"activity_id" json:"activity_id"`
	Name        string    `db:"name" json:"name"`
	OwnerTeam   *string   `db:"owner_team" json:"owner_team,omitempty"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Measurement is a single checkable capability statement of the maturity model.
type Measurement struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Description  *string      `db:"description" json:"description,omitempty"`
	EvidenceType EvidenceType `db:"evidence_type" json:"evidence_type"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}
