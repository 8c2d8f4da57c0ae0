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

import (
	"strings"
	"time"
)

type (
	// Field is one key/value pair of the STRUCTURED-DATA element
	Field struct {
		Key   string
		Value string
	}

	// Fields is an ordered list of pairs. The order is kept when rendered.
	Fields []Field

	// Event is one log event produced by an adapter. The zero Time means
	// the event is stamped when it is rendered.
	Event struct {
		Time     time.Time
		Severity Severity
		Message  string
		Fields   Fields
	}
)

// Set adds the pair to the end of the list, or replaces the value in place
// if the key is already there, so keys stay unique.
func (ff *Fields) Set(key, value string) {
	for i := range *ff {
		if (*ff)[i].Key == key {
			(*ff)[i].Value = value
			return
		}
	}
	*ff = append(*ff, Field{Key: key, Value: value})
}

// ReplaceNewLines replaces CR and LF in the message and in the field
// values by spaces. Adapters call it before writing RFC5424 frames, where a
// new line ends the frame.
func (e *Event) ReplaceNewLines() {
	e.Message = ReplaceNewLines(e.Message)
	for i := range e.Fields {
		e.Fields[i].Value = ReplaceNewLines(e.Fields[i].Value)
	}
}

var nlReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// ReplaceNewLines returns s with every CRLF, LF and CR replaced by one space
func ReplaceNewLines(s string) string {
	if strings.IndexAny(s, "\r\n") < 0 {
		return s
	}
	return nlReplacer.Replace(s)
}

// NewEvent returns an event with the severity, message and the pairs
// provided as key, value, key, value... A trailing key without value gets
// the empty value.
func NewEvent(sev Severity, msg string, kvs ...string) *Event {
	e := &Event{Severity: sev, Message: msg}
	for i := 0; i < len(kvs); i += 2 {
		v := ""
		if i+1 < len(kvs) {
			v = kvs[i+1]
		}
		e.Fields.Set(kvs[i], v)
	}
	return e
}
