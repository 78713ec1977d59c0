package store

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrSlotConflict  = errors.New("slot already booked")
	ErrWindowOverlap = errors.New("availability window overlap")
	ErrInvalidState  = errors.New("appointment not in required status")
)
