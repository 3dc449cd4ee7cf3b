// file: internals/features/billing/service/errors.go
package service

import "errors"

// Configuration errors: fatal, block the whole run.
var (
	ErrPeriodNotConfigured = errors.New("collection period has no target month/year")
	ErrNoFeesConfigured    = errors.New("collection period has no fee types attached")
)

// Lifecycle errors.
var (
	ErrPeriodHasInvoices  = errors.New("collection period has invoices and cannot be deleted")
	ErrFeeAlreadyAttached = errors.New("fee type is already attached to this period")
	ErrFeeNotAttached     = errors.New("fee type is not attached to this period")
	// ErrFeeHasPayments: detaching a fee is blocked once any invoice in the
	// period has recorded payments; removing a line a household already paid
	// for needs an explicit refund flow, not a silent recalculation.
	ErrFeeHasPayments = errors.New("period already has recorded payments; fee cannot be detached")
)
