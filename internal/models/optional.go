package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// OptString is a request field that distinguishes "absent" from "empty".
// It binds from JSON bodies as well as form and query values.
type OptString struct {
	Value string
	Set   bool
}

func SomeString(v string) OptString {
	return OptString{Value: v, Set: true}
}

func (o *OptString) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
		*o = OptString{}
		return nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*o = SomeString(s)
		return nil
	case raw[0] == '{', raw[0] == '[':
		return fmt.Errorf("expected a string, got %s", raw)
	default:
		// numbers and booleans keep their literal text
		*o = SomeString(string(raw))
		return nil
	}
}

func (o *OptString) UnmarshalParam(param string) error {
	*o = SomeString(param)
	return nil
}

// OptFloat is a numeric request field. Values that are present but not a
// finite number are kept with Valid set to false so they can be reported as
// a validation failure instead of a bind error.
type OptFloat struct {
	Value float64
	Set   bool
	Valid bool
}

func SomeFloat(v float64) OptFloat {
	return OptFloat{Value: v, Set: true, Valid: true}
}

func (o *OptFloat) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*o = OptFloat{}
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		return o.UnmarshalParam(s)
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		*o = OptFloat{Set: true}
		return nil
	}
	*o = SomeFloat(f)
	return nil
}

// UnmarshalParam treats an empty value as absent.
func (o *OptFloat) UnmarshalParam(param string) error {
	if strings.TrimSpace(param) == "" {
		*o = OptFloat{}
		return nil
	}
	f, ok := ParseFiniteFloat(param)
	*o = OptFloat{Value: f, Set: true, Valid: ok}
	return nil
}

// ParseFiniteFloat parses s as a float64, rejecting NaN and infinities.
func ParseFiniteFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
