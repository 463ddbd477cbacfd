package entity

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           uint64
	AdminID      string
	AdminEmail   string
	AdminRole    string
	Action       string
	TargetEntity string
	Details      json.RawMessage
	CreatedAt    time.Time
}
