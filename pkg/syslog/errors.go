// Copyright 2018-2019 The logrange Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package syslog

import "fmt"

type (
	// Reason describes which constraint a field or a key violates
	Reason string

	// ValidationError is returned when an identity field cannot be accepted
	// by the Builder. It is a configuration error and retrying makes no sense.
	ValidationError struct {
		Field  string
		Value  string
		Reason Reason
	}

	// FieldEncodingError is returned by the Formatter when one event cannot be
	// rendered. Only the event is affected, the Formatter stays usable.
	FieldEncodingError struct {
		Key    string
		Reason Reason
	}

	// WriteError wraps an error reported by the sink. The sink may contain
	// a partially written frame for the event.
	WriteError struct {
		Err error
	}
)

const (
	ReasonEmpty         Reason = "must be non-empty"
	ReasonTooLong       Reason = "is too long"
	ReasonWhitespace    Reason = "contains whitespace"
	ReasonNonPrintable  Reason = "contains non-printable US-ASCII byte"
	ReasonReserved      Reason = "contains one of reserved '=', ']', '\"' or '@' characters"
	ReasonUnknown       Reason = "unknown value"
	ReasonSeverityRange Reason = "severity must be in 0..7"
)

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s=%q: %s", e.Field, e.Value, e.Reason)
}

func (e *FieldEncodingError) Error() string {
	return fmt.Sprintf("could not encode key=%q: %s", e.Key, e.Reason)
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("could not write syslog message: %v", e.Err)
}

// Cause allows errors.Cause() to reach the sink error
func (e *WriteError) Cause() error {
	return e.Err
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
