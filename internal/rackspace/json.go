package rackspace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// number decodes a JSON value that the Rackspace APIs send either as a
// number or as a string. An empty string decodes to zero, which is how the
// NextGen flavor listing reports "no swap". Fields a metric depends on are
// declared as *number so an absent or null value stays nil.
type number float64

// float returns the value as a *float64, nil when the field was absent
func (n *number) float() *float64 {
	if n == nil {
		return nil
	}
	v := float64(*n)
	return &v
}

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("non-numeric value %q", s)
		}
		*n = number(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = number(f)
	return nil
}

// identifier decodes an id that is a string on NextGen APIs and an integer on
// FirstGen APIs.
type identifier string

func (id *identifier) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = identifier(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %w", err)
	}
	*id = identifier(n.String())
	return nil
}

// field is a required numeric field of one upstream record
type field struct {
	name  string
	value *number
}

// requireFields returns a *MissingFieldError for a record without a name or
// for the first field that was absent from the response
func requireFields(resource string, fields ...field) error {
	if resource == "" {
		return &MissingFieldError{Field: "name"}
	}
	for _, f := range fields {
		if f.value == nil {
			return &MissingFieldError{Resource: resource, Field: f.name}
		}
	}
	return nil
}

// missingList reports a response that decoded but lacks its top-level list
func missingList(url, key string) error {
	return &DecodeError{URL: url, Err: fmt.Errorf("response has no %q list", key)}
}
