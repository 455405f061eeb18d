package repository

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrDuplicatePhone        = errors.New("phone already registered")
	ErrProductNotFound       = errors.New("product not found")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrOrderNotFound         = errors.New("order not found")
	ErrNoServiceableLocation = errors.New("no serviceable location")
	ErrPartnerNotFound       = errors.New("delivery partner not found")
	ErrPartnerUnavailable    = errors.New("delivery partner unavailable")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrReservationMismatch   = errors.New("cannot confirm more than reserved")
)
