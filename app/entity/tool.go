package entity

import (
	"encoding/json"
	"time"
)

const (
	ToolStatusDraft    = "DRAFT"
	ToolStatusActive   = "ACTIVE"
	ToolStatusDisabled = "DISABLED"
)

type Tool struct {
	ID             uint64
	Slug           string
	Name           string
	Category       string
	Description    string
	Status         string
	CurrentVersion int32
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ToolVersion rows are never updated after IsPublished becomes true.
type ToolVersion struct {
	ID            uint64
	ToolID        uint64
	VersionNumber int32
	InputSchema   json.RawMessage
	OutputSchema  json.RawMessage
	WebhookURL    string
	IsPublished   bool
	PublishedAt   *time.Time
	CreatedAt     time.Time
}

type ToolAccess struct {
	ToolID   uint64
	PlanID   uint64
	IsHidden bool
}
