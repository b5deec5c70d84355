package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the draw engine and its collaborators report
type ErrorKind string

const (
	ErrorKindEventNotLive         ErrorKind = "EventNotLive"
	ErrorKindEventNotFound        ErrorKind = "EventNotFound"
	ErrorKindPrizeNotFound        ErrorKind = "PrizeNotFound"
	ErrorKindPrizeExhausted       ErrorKind = "PrizeExhausted"
	ErrorKindNoEligibleCandidates ErrorKind = "NoEligibleCandidates"
	ErrorKindWinnerConflict       ErrorKind = "WinnerConflict"
	ErrorKindStorageUnavailable   ErrorKind = "StorageUnavailable"
	ErrorKindInvalidInput         ErrorKind = "InvalidInput"
	ErrorKindConflict             ErrorKind = "Conflict"
	ErrorKindAttendeeNotFound     ErrorKind = "AttendeeNotFound"
)

// Transient reports whether a caller may retry the whole operation unchanged
func (k ErrorKind) Transient() bool {
	return k == ErrorKindStorageUnavailable
}

// Domain reports whether the error is a deterministic outcome of current state
func (k ErrorKind) Domain() bool {
	switch k {
	case ErrorKindEventNotLive, ErrorKindEventNotFound, ErrorKindPrizeNotFound,
		ErrorKindPrizeExhausted, ErrorKindNoEligibleCandidates,
		ErrorKindInvalidInput, ErrorKindConflict, ErrorKindAttendeeNotFound:
		return true
	}
	return false
}

// DrawError is a classified error. Under errors.Is a target matches on kind,
// and also on message id when the target carries one.
type DrawError struct {
	Kind    ErrorKind
	Message string
	// MessageID selects a localized message, defaults to the kind
	MessageID string
	Data      map[string]interface{}
	Err       error
}

func (e *DrawError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DrawError) Unwrap() error {
	return e.Err
}

// Is matches on kind so sentinels work with errors.Is
func (e *DrawError) Is(target error) bool {
	t, ok := target.(*DrawError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.MessageID == "" || t.MessageID == e.MessageID
}

// LocalizationID returns the message id used to look up a translated message
func (e *DrawError) LocalizationID() string {
	if e.MessageID != "" {
		return e.MessageID
	}
	return string(e.Kind)
}

var (
	ErrEventNotLive         = &DrawError{Kind: ErrorKindEventNotLive, Message: "event is not live"}
	ErrEventNotFound        = &DrawError{Kind: ErrorKindEventNotFound, Message: "event not found"}
	ErrPrizeNotFound        = &DrawError{Kind: ErrorKindPrizeNotFound, Message: "prize not found"}
	ErrPrizeExhausted       = &DrawError{Kind: ErrorKindPrizeExhausted, Message: "prize has no remaining quantity"}
	ErrNoEligibleCandidates = &DrawError{Kind: ErrorKindNoEligibleCandidates, Message: "no eligible attendees remain"}
	ErrWinnerConflict       = &DrawError{Kind: ErrorKindWinnerConflict, Message: "attendee has already won in this event"}
	ErrStorageUnavailable   = &DrawError{Kind: ErrorKindStorageUnavailable, Message: "storage unavailable"}
	ErrInvalidInput         = &DrawError{Kind: ErrorKindInvalidInput, Message: "invalid input"}
	ErrConflict             = &DrawError{Kind: ErrorKindConflict, Message: "conflict"}

	ErrDuplicatePhone     = &DrawError{Kind: ErrorKindConflict, MessageID: "PhoneAlreadyCheckedIn", Message: "phone number already checked in"}
	ErrDuplicateAttendee  = &DrawError{Kind: ErrorKindConflict, MessageID: "AttendeeAlreadyCheckedIn", Message: "attendee already checked in"}
	ErrDuplicateTicket    = &DrawError{Kind: ErrorKindConflict, MessageID: "TicketNumberTaken", Message: "ticket number already assigned"}
	ErrDuplicateEventCode = &DrawError{Kind: ErrorKindConflict, MessageID: "EventCodeTaken", Message: "event code already exists"}
	ErrPrizeHasWinners    = &DrawError{Kind: ErrorKindConflict, MessageID: "PrizeHasWinners", Message: "prize already has winners"}
	ErrAttendeeHasWon     = &DrawError{Kind: ErrorKindConflict, MessageID: "AttendeeHasWon", Message: "attendee has already won"}
	ErrAttendeeNotFound   = &DrawError{Kind: ErrorKindAttendeeNotFound, Message: "attendee not found"}
)

// NewError creates a classified error with a formatted message
func NewError(kind ErrorKind, format string, args ...interface{}) *DrawError {
	return &DrawError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewLocalizedError creates a classified error carrying a message id and template data
func NewLocalizedError(kind ErrorKind, messageID string, data map[string]interface{}, format string, args ...interface{}) *DrawError {
	return &DrawError{
		Kind:      kind,
		Message:   fmt.Sprintf(format, args...),
		MessageID: messageID,
		Data:      data,
	}
}

// NewStorageError wraps an infrastructure failure as StorageUnavailable
func NewStorageError(message string, err error) *DrawError {
	return &DrawError{Kind: ErrorKindStorageUnavailable, Message: message, Err: err}
}

// KindOf returns the classification of err. Unclassified errors are storage failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *DrawError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrorKindStorageUnavailable
}
