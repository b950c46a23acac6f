package domain

import "errors"

var (
	// ErrJobNotFound is returned when the job record does not exist
	ErrJobNotFound = errors.New("job not found")

	// ErrUserNotFound is returned when the user account does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrWorkerNotAuthorized is returned when the caller is not the worker assigned to the job
	ErrWorkerNotAuthorized = errors.New("worker not authorized for this job")

	// ErrUserNotAuthorized is returned when the caller is not the customer on the job
	ErrUserNotAuthorized = errors.New("user not authorized for this job")

	// ErrInvalidAmount is returned when the requested amount is zero or negative
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrPaymentNotRequested is returned when an operation needs a payment in
	// the "requested" state and the job has none
	ErrPaymentNotRequested = errors.New("invalid job or payment not requested")

	// ErrInsufficientFunds is returned when the wallet balance cannot cover the debit
	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	// ErrInvalidSignature is returned when the gateway callback signature does not verify
	ErrInvalidSignature = errors.New("invalid payment signature")

	// ErrPaymentNotCaptured is returned when the gateway reports the payment
	// in any state other than captured
	ErrPaymentNotCaptured = errors.New("payment not captured")
)
