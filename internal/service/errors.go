package service

import "errors"

// Sentinel errors shared by all services. Handlers translate them to HTTP
// status codes with errors.Is; wrapped variants carry extra context.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrInvalidState        = errors.New("operation not allowed in current state")
	ErrInsufficientBalance = errors.New("insufficient balance")

	ErrAlreadyStandard        = errors.New("account already on the standard plan")
	ErrAlreadyBoosted         = errors.New("product is already boosted")
	ErrNoEligibleSubscription = errors.New("no active subscription with boost slots remaining")
	ErrProductNotEligible     = errors.New("product is not eligible for boosting")
	ErrListingLimitReached    = errors.New("active listing limit reached for the standard plan")
)
