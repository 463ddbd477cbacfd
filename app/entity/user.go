package entity

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	PlanID       *uint64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
