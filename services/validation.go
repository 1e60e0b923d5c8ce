package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput runs the struct tags of input and reports every failing field
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return newError(KindValidation, "invalid payload", err)
	}
	failures := make([]string, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		failures = append(failures, fmt.Sprintf("%s failed on %s", fieldErr.Field(), fieldErr.Tag()))
	}
	return newError(KindValidation, "invalid payload: "+strings.Join(failures, ", "), nil)
}

// ParseID parses an identifier received as a string
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil || id == 0 {
		return 0, newError(KindValidation, fmt.Sprintf("invalid identifier %q", raw), nil)
	}
	return uint(id), nil
}

// ParseDate converts a [year, month, day] triple into a calendar date at midnight UTC.
// Months are 1-based and the triple must name an existing day
func ParseDate(parts []int) (time.Time, error) {
	if len(parts) != 3 {
		return time.Time{}, newError(KindValidation, "a date must be [year, month, day]", nil)
	}
	year, month, day := parts[0], parts[1], parts[2]
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return time.Time{}, newError(KindValidation, fmt.Sprintf("%d-%02d-%02d is not a calendar date", year, month, day), nil)
	}
	return date, nil
}
