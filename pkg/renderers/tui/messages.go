package tui

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// Messages renders a validation code for the user.
type Messages func(code int) string

var defaultMessages = map[int]string{
	validation.CodeMinStrLen:     "is too short",
	validation.CodeMinNumberLen:  "is below the minimum",
	validation.CodeMaxNumberLen:  "is above the maximum",
	validation.CodeMaxStrLen:     "is too long",
	validation.CodeRequired:      "is required",
	validation.CodeEmailRegex:    "is not an email address",
	validation.CodeStrRegex:      "has an invalid format",
	validation.CodeValidateFn:    "is invalid",
	validation.CodeValuesNotSame: "fields do not match",
}

// DefaultMessages is the English mapping used when none is configured.
func DefaultMessages(code int) string {
	if msg, ok := defaultMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("failed check %s", validation.CodeName(code))
}
