package payout

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the lifecycle state of a payout.
type Status int

const (
	Unknown Status = iota
	Pending
	Processing
	Completed
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Pending:    "pending",
		Processing: "processing",
		Completed:  "completed",
		Failed:     "failed",
	}
}

func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("payout status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payout status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsTerminal reports whether the payout reached completed or failed.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Failed
}

// CanTransitionTo reports whether s -> to is a forward move.
func (s Status) CanTransitionTo(to Status) bool {
	switch to {
	case Processing:
		return s == Pending
	case Completed:
		return s == Processing
	case Failed:
		return s == Pending || s == Processing
	default:
		return false
	}
}

// RecipientType says who receives the payout.
type RecipientType int

const (
	RecipientUnknown RecipientType = iota
	RecipientRestaurant
	RecipientWorker
)

func getRecipientStrings() map[RecipientType]string {
	return map[RecipientType]string{
		RecipientRestaurant: "restaurant",
		RecipientWorker:     "worker",
	}
}

func ParseRecipientType(s string) (RecipientType, error) {
	for r, name := range getRecipientStrings() {
		if name == s {
			return r, nil
		}
	}
	return RecipientUnknown, errs.NewValueIsInvalidErrorWithCause(
		"recipient_type",
		fmt.Errorf("%q is not restaurant or worker", s),
	)
}

func (r RecipientType) String() string {
	if str, ok := getRecipientStrings()[r]; ok {
		return str
	}
	return "unknown"
}

func (r RecipientType) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
