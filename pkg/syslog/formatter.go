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
	"strconv"
	"strings"
	"time"
)

type (
	// Formatter renders events into RFC5424 messages. It is immutable and
	// can be used from many goroutines at once.
	Formatter struct {
		sdId     string
		facility Facility
		appName  string
		hostname string
		pid      string
		msgId    string
		format   WriteFormat
		now      func() time.Time
	}
)

const (
	timeFmt = "2006-01-02T15:04:05.000000Z07:00"
)

// WriteFormat returns the framing the formatter was built with
func (f *Formatter) WriteFormat() WriteFormat {
	return f.format
}

// Facility returns the configured facility
func (f *Formatter) Facility() Facility {
	return f.facility
}

// Render returns the RFC5424 message for the event. The message is not
// framed. Embedded new lines in the event message are not touched.
func (f *Formatter) Render(e *Event) ([]byte, error) {
	return f.AppendRender(nil, e)
}

// AppendRender appends the rendered event to dst. On error dst is
// returned as is.
func (f *Formatter) AppendRender(dst []byte, e *Event) ([]byte, error) {
	if !e.Severity.Valid() {
		return dst, &FieldEncodingError{Key: "severity(" + strconv.Itoa(int(e.Severity)) + ")", Reason: ReasonSeverityRange}
	}
	for _, fld := range e.Fields {
		if r, ok := sdNameReason(fld.Key); !ok {
			return dst, &FieldEncodingError{Key: fld.Key, Reason: r}
		}
	}

	ts := e.Time
	if ts.IsZero() {
		ts = f.now()
	}

	buf := dst
	buf = append(buf, '<')
	buf = strconv.AppendInt(buf, int64(Priority(f.facility, e.Severity)), 10)
	buf = append(buf, ">1 "...)
	buf = ts.AppendFormat(buf, timeFmt)
	buf = append(buf, ' ')
	buf = append(buf, f.hostname...)
	buf = append(buf, ' ')
	buf = append(buf, f.appName...)
	buf = append(buf, ' ')
	buf = append(buf, f.pid...)
	buf = append(buf, ' ')
	buf = append(buf, f.msgId...)
	buf = append(buf, ' ')
	buf = f.appendStructuredData(buf, e.Fields)
	if e.Message != "" {
		buf = append(buf, ' ')
		buf = append(buf, e.Message...)
	}
	return buf, nil
}

func (f *Formatter) appendStructuredData(buf []byte, ff Fields) []byte {
	if len(ff) == 0 {
		return append(buf, '-')
	}
	buf = append(buf, '[')
	buf = append(buf, f.sdId...)
	for _, fld := range ff {
		buf = append(buf, ' ')
		buf = append(buf, fld.Key...)
		buf = append(buf, '=', '"')
		buf = appendEscaped(buf, fld.Value)
		buf = append(buf, '"')
	}
	return append(buf, ']')
}

func appendEscaped(buf []byte, v string) []byte {
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '"', '\\', ']':
			buf = append(buf, '\\')
		}
		buf = append(buf, v[i])
	}
	return buf
}

// UnescapeParamValue reverses the PARAM-VALUE escaping. A backslash not
// followed by '"', '\' or ']' is kept as is.
func UnescapeParamValue(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '"', '\\', ']':
				i++
				c = s[i]
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
