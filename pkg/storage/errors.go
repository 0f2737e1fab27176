package storage

import "errors"

// ErrOrderNotFound is returned when no order exists for the given ID.
var ErrOrderNotFound = errors.New("order not found")

// ErrOrderNotAcceptable is returned when a provider tries to accept an order that is not pending, e.g., because another provider already claimed it.
var ErrOrderNotAcceptable = errors.New("order not in an acceptable state")

// ErrInvalidStatusTransition is returned when a status update would violate the order lifecycle.
var ErrInvalidStatusTransition = errors.New("invalid order status transition")

// ErrNoLocation is returned when no location ping has been recorded for an order yet.
var ErrNoLocation = errors.New("no location recorded")
