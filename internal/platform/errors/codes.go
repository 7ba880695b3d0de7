// Package errors provides structured error handling with stable codes.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Auth errors
	CodeUnauthenticated   Code = "UNAUTHENTICATED"
	CodeTokenExpired      Code = "TOKEN_EXPIRED"
	CodeCredentialInvalid Code = "CREDENTIAL_INVALID"
	CodeUsernameTaken     Code = "USERNAME_TAKEN"

	// User errors
	CodeUserEmptyUsername   Code = "USER_EMPTY_USERNAME"
	CodeUserInvalidUsername Code = "USER_INVALID_USERNAME"
	CodeUserEmptyPassword   Code = "USER_EMPTY_PASSWORD"

	// Calendar errors
	CodeCalendarNameEmpty          Code = "CALENDAR_NAME_EMPTY"
	CodeCalendarNameTooLong        Code = "CALENDAR_NAME_TOO_LONG"
	CodeCalendarDescriptionTooLong Code = "CALENDAR_DESCRIPTION_TOO_LONG"

	// Event errors
	CodeEventMissingRequiredField Code = "EVENT_MISSING_REQUIRED_FIELD"
	CodeEventInvalidDate          Code = "EVENT_INVALID_DATE"
	CodeEventDateOrder            Code = "EVENT_DATE_ORDER"
	CodeEventInvalidStatus        Code = "EVENT_INVALID_STATUS"
	CodeEventInvalidLocation      Code = "EVENT_INVALID_LOCATION"
	CodeEventInvalidTag           Code = "EVENT_INVALID_TAG"

	// Recurrence errors
	CodeRecurrenceInvalidRule  Code = "RECURRENCE_INVALID_RULE"
	CodeRecurrenceInvalidRange Code = "RECURRENCE_INVALID_RANGE"

	// Request errors
	CodeInvalidBody  Code = "INVALID_BODY"
	CodeInvalidMonth Code = "INVALID_MONTH"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeUserEmptyUsername,
		CodeUserInvalidUsername,
		CodeUserEmptyPassword,
		CodeUsernameTaken,
		CodeCalendarNameEmpty,
		CodeCalendarNameTooLong,
		CodeCalendarDescriptionTooLong,
		CodeEventMissingRequiredField,
		CodeEventInvalidDate,
		CodeEventDateOrder,
		CodeEventInvalidStatus,
		CodeEventInvalidLocation,
		CodeEventInvalidTag,
		CodeRecurrenceInvalidRule,
		CodeRecurrenceInvalidRange,
		CodeInvalidBody,
		CodeInvalidMonth:
		return http.StatusBadRequest

	// Unauthorized - missing, malformed, or expired credentials
	case CodeUnauthenticated,
		CodeTokenExpired,
		CodeCredentialInvalid:
		return http.StatusUnauthorized

	// Not found - absent records and disguised authorization failures
	case CodeNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
