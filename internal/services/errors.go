package services

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidPassword = errors.New("invalid password")

	ErrReleaseNotFound     = errors.New("release not found")
	ErrUnauthorized        = errors.New("unauthorized to modify this resource")
	ErrInvalidStatus       = errors.New("unknown release status")
	ErrReleaseNotDeletable = errors.New("release must be taken down before it can be deleted")
	ErrReleaseNotEditable  = errors.New("release can no longer be edited")
	ErrTakedownNotAllowed  = errors.New("takedown can only be requested for an approved release")
	ErrTakedownRequested   = errors.New("takedown already requested")
	ErrNoTakedownRequest   = errors.New("no takedown request pending")

	ErrFineNotFound   = errors.New("fine not found")
	ErrPayoutNotFound = errors.New("payout request not found")
	ErrPayoutDecided  = errors.New("payout request already processed")
	ErrAppealNotFound = errors.New("appeal not found")
	ErrAppealDecided  = errors.New("appeal already decided")
	ErrTicketNotFound = errors.New("ticket not found")

	ErrInvitationNotFound = errors.New("invitation not found or expired")
	ErrAllowanceExceeded  = errors.New("track allowance exceeded")
	ErrInsufficientFunds  = errors.New("requested amount exceeds unpaid royalty balance")
)
