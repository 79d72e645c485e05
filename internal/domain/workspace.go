package domain

import "time"

type WorkspaceType struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Capacity    int       `json:"capacity" validate:"gte=1"`
	Amenities   []string  `json:"amenities,omitempty" gorm:"serializer:json"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Workspace is owned by the catalog. Bookings reference it by id; an
// inactive workspace stops accepting new bookings but existing bookings
// are untouched.
type Workspace struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name" validate:"required"`
	Location        string    `json:"location" validate:"required"`
	Floor           string    `json:"floor,omitempty"`
	WorkspaceTypeID int64     `json:"workspace_type_id" validate:"required"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
