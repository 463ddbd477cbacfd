package entity

import "time"

// LimitUnlimited marks a plan limit without a ceiling.
const LimitUnlimited int64 = -1

type Plan struct {
	ID                uint64
	Slug              string
	Name              string
	Description       string
	PriceMonthlyCents int64
	PriceYearlyCents  int64
	Currency          string
	TrialDays         int32
	Features          map[string]bool
	Limits            map[string]int64
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (p *Plan) IsFree() bool {
	return p.PriceMonthlyCents == 0 && p.PriceYearlyCents == 0
}
