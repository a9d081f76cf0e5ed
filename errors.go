package confess

import (
	"errors"
	"fmt"

	"github.com/xraph/confess/payment"
	"github.com/xraph/confess/ratelimit"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound         = errors.New("confess: not found")
	ErrInvalidInput     = errors.New("confess: invalid input")
	ErrNotStarted       = errors.New("confess: engine not started")
	ErrAlreadyStarted   = errors.New("confess: engine already started")
	ErrDuplicateRequest = errors.New("confess: duplicate request key")
	ErrUnknownCommand   = errors.New("confess: unknown command")

	// Validation errors
	ErrZeroAddress         = errors.New("confess: zero address")
	ErrEmptyContent        = errors.New("confess: empty content")
	ErrContentTooLong      = errors.New("confess: content too long")
	ErrInvalidCategory     = errors.New("confess: invalid category")
	ErrInvalidReactionType = errors.New("confess: invalid reaction type")
	ErrInvalidReason       = errors.New("confess: invalid report reason")
	ErrInvalidTargetType   = errors.New("confess: invalid report target type")
	ErrInvalidSubjectKind  = errors.New("confess: invalid reaction subject kind")
	ErrInvalidSettings     = errors.New("confess: invalid moderation settings")
	ErrInvalidAmount       = errors.New("confess: invalid amount")

	// Authorization errors
	ErrNoActiveAccess = errors.New("confess: no active access")
	ErrUnauthorized   = errors.New("confess: caller is not the owner")

	// Rate limit errors
	ErrCooldownNotElapsed = ratelimit.ErrCooldownNotElapsed
	ErrDailyLimitReached  = ratelimit.ErrDailyLimitReached

	// State conflict errors
	ErrAlreadyReacted        = errors.New("confess: already reacted")
	ErrNoReaction            = errors.New("confess: no reaction to change or remove")
	ErrAlreadyVoted          = errors.New("confess: already voted on report")
	ErrReportAlreadyResolved = errors.New("confess: report already resolved")

	// Lookup errors
	ErrMemberNotFound     = errors.New("confess: member not found")
	ErrConfessionNotFound = errors.New("confess: confession not found")
	ErrCommentNotFound    = errors.New("confess: comment not found")
	ErrReportNotFound     = errors.New("confess: report not found")

	// Payment errors
	ErrInsufficientAllowance = payment.ErrInsufficientAllowance
	ErrInsufficientBalance   = payment.ErrInsufficientBalance

	// Store errors
	ErrStoreClosed       = errors.New("confess: store is closed")
	ErrTxDone            = errors.New("confess: transaction already committed or rolled back")
	ErrTransactionFailed = errors.New("confess: transaction failed")
	ErrJournalAppend     = errors.New("confess: journal append failed")
	ErrReplayFailed      = errors.New("confess: journal replay failed")
	ErrStateDiverged     = errors.New("confess: journaled command did not commit; restart to replay")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("confess: validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap returns the sentinel the validation failure classifies as.
func (e ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidInput
	}
	return e.Err
}

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "confess: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("confess: %d errors occurred", len(e.Errors))
}

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ErrorOrNil returns the multi-error, or nil when nothing was added.
func (e MultiError) ErrorOrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrConfessionNotFound) ||
		errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrReportNotFound)
}

// IsValidation returns true if the input itself was rejected.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrZeroAddress) ||
		errors.Is(err, ErrEmptyContent) ||
		errors.Is(err, ErrContentTooLong) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidReactionType) ||
		errors.Is(err, ErrInvalidReason) ||
		errors.Is(err, ErrInvalidTargetType) ||
		errors.Is(err, ErrInvalidSubjectKind) ||
		errors.Is(err, ErrInvalidSettings) ||
		errors.Is(err, ErrInvalidAmount)
}

// IsAuthorization returns true if the caller lacks access or ownership.
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrNoActiveAccess) ||
		errors.Is(err, ErrUnauthorized)
}

// IsRateLimit returns true if a cooldown or daily limit blocked the action.
func IsRateLimit(err error) bool {
	return errors.Is(err, ErrCooldownNotElapsed) ||
		errors.Is(err, ErrDailyLimitReached)
}

// IsStateConflict returns true if the action conflicts with existing state.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrAlreadyReacted) ||
		errors.Is(err, ErrNoReaction) ||
		errors.Is(err, ErrAlreadyVoted) ||
		errors.Is(err, ErrReportAlreadyResolved) ||
		errors.Is(err, ErrDuplicateRequest)
}

// IsPayment returns true if the payment collaborator refused the transfer.
func IsPayment(err error) bool {
	return errors.Is(err, ErrInsufficientAllowance) ||
		errors.Is(err, ErrInsufficientBalance)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransactionFailed) ||
		errors.Is(err, ErrJournalAppend)
}
