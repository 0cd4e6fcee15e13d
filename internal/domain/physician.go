package domain

import (
	"strings"
	"time"
)

type Physician struct {
	ID              int64      `json:"id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	SpecialtyID     int64      `json:"specialty_id"`
	SpecialtyName   string     `json:"specialty_name,omitempty"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	Bio             string     `json:"bio"`
	ProfilePhotoURL string     `json:"profile_photo_url"`
	IsActive        bool       `json:"is_active"`
	LocationIDs     []int64    `json:"location_ids"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"-"`
}

func (p Physician) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type CreatePhysicianDTO struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	SpecialtyID int64  `json:"specialty_id" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required"`
	Bio         string `json:"bio"`
}

type UpdatePhysicianDTO struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	SpecialtyID *int64  `json:"specialty_id"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	Bio         *string `json:"bio"`
	IsActive    *bool   `json:"is_active"`
}

type PhysicianFilter struct {
	SpecialtyID *int64  `json:"specialty_id"`
	LocationID  *int64  `json:"location_id"`
	SearchTerm  *string `json:"search_term"`
	OnlyActive  bool    `json:"only_active"`
	Limit       int     `json:"limit"`
	Offset      int     `json:"offset"`
}

type Specialty struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateSpecialtyDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

type UpdateSpecialtyDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type Location struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateLocationDTO struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	Phone   string `json:"phone"`
}

type UpdateLocationDTO struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}
