package rackspace

import (
	"errors"
	"fmt"
)

// ErrNoDefaultRegion is returned when the identity response carries no
// RAX-AUTH:defaultRegion but a catalog endpoint needs it as a fallback.
var ErrNoDefaultRegion = errors.New("identity response has no default region")

// ConfigurationError reports missing or invalid required input. It is fatal
// to the whole run.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// AuthenticationError reports a failed identity call. It is fatal to the
// whole run since no token or endpoints exist to proceed with.
type AuthenticationError struct {
	URL string
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication against %s failed: %v", e.URL, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// CollectionError reports a failed collector call for one family and region.
// The orchestrator logs it and moves on to the next region or family.
type CollectionError struct {
	Family Family
	Region string
	Err    error
}

func (e *CollectionError) Error() string {
	if e.Region == "" {
		return fmt.Sprintf("collecting %s: %v", e.Family, e.Err)
	}
	return fmt.Sprintf("collecting %s in region %s: %v", e.Family, e.Region, e.Err)
}

func (e *CollectionError) Unwrap() error { return e.Err }

// UnknownStatusError is returned when a lifecycle status string is not part
// of the family's vocabulary. Only the offending record is dropped.
type UnknownStatusError struct {
	Vocabulary string
	Status     string
	Resource   string
}

func (e *UnknownStatusError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("unknown %s status %q", e.Vocabulary, e.Status)
	}
	return fmt.Sprintf("unknown %s status %q for %s", e.Vocabulary, e.Status, e.Resource)
}

// MissingFieldError is returned when a record lacks a field one of its
// metrics is read from. Only the offending record is dropped.
type MissingFieldError struct {
	Resource string
	Field    string
}

func (e *MissingFieldError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("record without %q skipped", e.Field)
	}
	return fmt.Sprintf("%s: missing field %q", e.Resource, e.Field)
}

// StatusError is returned by the HTTP client when the upstream answers with a
// status code outside the accepted set.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string // raw status line, e.g. "404 Not Found"
	Message    string // upstream "message" field, if any
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: unexpected response %s", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: unexpected response %s: %s", e.Method, e.URL, e.Status, e.Message)
}

// DecodeError is returned when a response body is not valid JSON for the
// expected shape.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
