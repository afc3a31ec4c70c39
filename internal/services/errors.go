// Package services defines the business logic for imports, records, and
// status transitions. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

var (
	// ErrMalformedWorkbook is returned when the uploaded payload cannot be
	// parsed into sheets at all; the import fails with 0 sheets processed.
	ErrMalformedWorkbook = errors.New("workbook cannot be parsed")

	// ErrInvalidPolicy is returned when the import policy is neither
	// "merge" nor "replace".
	ErrInvalidPolicy = errors.New("policy must be merge or replace")

	// ErrUnknownKind is returned when an operation names a kind outside
	// requests/signals/terminals.
	ErrUnknownKind = errors.New("unknown record kind")

	// ErrStationNumber is returned when a single-record creation flow
	// carries no valid nine-digit station number.
	ErrStationNumber = errors.New("station number must be exactly 9 digits")

	// ErrMissingTestDate is returned when a test request is created without
	// a parseable test date; the (station, date) identity needs both parts.
	ErrMissingTestDate = errors.New("test date is required")

	// ErrMissingReceivedAt is returned when a signal is created without a
	// parseable received timestamp.
	ErrMissingReceivedAt = errors.New("received timestamp is required")

	// ErrDuplicateRecord is returned when a single-record creation collides
	// with an existing record on the natural key.
	ErrDuplicateRecord = errors.New("record with the same identity already exists")

	// ErrRequestNotFound indicates the referenced test request does not exist.
	ErrRequestNotFound = errors.New("test request not found")

	// ErrTerminalNotFound indicates the referenced terminal does not exist.
	ErrTerminalNotFound = errors.New("terminal not found")

	// ErrInvalidTransition is returned when a status action is applied to a
	// request outside the pending state.
	ErrInvalidTransition = errors.New("status transition not allowed")
)
