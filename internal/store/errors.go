package store

import "errors"

// Sentinel errors returned by [SessionStore] methods. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrSessionNotFound is returned when no session has been saved.
	ErrSessionNotFound = errors.New("local session not found")

	// ErrTrackedJobNotFound is returned when no generator job is being tracked.
	ErrTrackedJobNotFound = errors.New("tracked job not found")
)

// Low-level database operation errors.
var (
	// ErrBuildingSQLQuery is returned when squirrel fails to render a query.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when an INSERT, UPDATE or DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrBeginningTransaction is returned when the driver cannot start a
	// transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing fails.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrUnsealingToken is returned when the stored token cannot be decrypted,
	// typically because the hash key changed.
	ErrUnsealingToken = errors.New("stored token cannot be unsealed")
)
