package domain

import "errors"

var (
	ErrInsufficientCampaignFunds = errors.New("insufficient campaign funds")
	ErrInvalidWaitlistStatus     = errors.New("invalid waitlist entry status")
	ErrAllocationNotFound        = errors.New("allocation not found")
	ErrExecutionNotFound         = errors.New("matching execution not found")
	ErrGeneralPoolNotFound       = errors.New("general pool campaign not found")
)
