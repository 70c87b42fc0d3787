package main

import (
	"errors"

	"github.com/mnurzia/aparse"
)

// Exit codes follow the usual shell conventions.
const (
	exitSuccess  = 0
	exitGeneral  = 1
	exitMisusage = 2
)

// usageError is a misuse detected after parsing succeeded.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

var misusage = map[aparse.ErrorType]bool{
	aparse.ErrorTypeUnknownOption:      true,
	aparse.ErrorTypeMissingValue:       true,
	aparse.ErrorTypeInvalidValue:       true,
	aparse.ErrorTypeMissingRequired:    true,
	aparse.ErrorTypeUnexpectedArgument: true,
}

// exitCode maps an error returned by the root command to a process exit
// code: command-line mistakes are 2, everything else 1.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return exitMisusage
	}
	var pe *aparse.ParseError
	if errors.As(err, &pe) && misusage[pe.Type] {
		return exitMisusage
	}
	return exitGeneral
}
