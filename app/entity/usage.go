package entity

import "time"

const (
	UsageOutcomeSuccess = "success"
	UsageOutcomeFailed  = "failed"
	UsageOutcomeDenied  = "denied"
)

type UsageLog struct {
	ID            uint64
	ExecutionID   string
	UserID        string
	ToolID        uint64
	VersionNumber int32
	UsageDate     time.Time
	Outcome       string
	DurationMs    int64
	OutputKey     *string
	ErrorMessage  *string
	CreatedAt     time.Time
}

type UsageSummary struct {
	Total   int64
	Success int64
	Failed  int64
	Denied  int64
}
