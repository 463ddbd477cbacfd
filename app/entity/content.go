package entity

import (
	"encoding/json"
	"time"
)

type LandingContent struct {
	SectionKey string
	Content    json.RawMessage
	Language   string
	UpdatedAt  time.Time
}

type SystemConfig struct {
	Key       string
	Value     json.RawMessage
	UpdatedBy *string
	UpdatedAt time.Time
}
