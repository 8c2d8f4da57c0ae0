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
	"time"
)

type (
	// Builder collects and validates the identity fields of a Formatter.
	// Every setter either stores the value or returns *ValidationError and
	// leaves the builder untouched. Build produces an immutable Formatter.
	Builder struct {
		enterpriseId string
		facility     Facility
		appName      string
		hostname     string
		pid          string
		msgId        string
		format       WriteFormat
		now          func() time.Time
	}
)

// RFC5424 field length limits
const (
	maxSdNameLen   = 32
	maxAppNameLen  = 48
	maxHostnameLen = 255
	maxPidLen      = 128
	maxMsgIdLen    = 32
)

const (
	FieldEnterpriseId = "enterpriseId"
	FieldFacility     = "facility"
	FieldAppName      = "appName"
	FieldHostname     = "hostname"
	FieldPid          = "pid"
	FieldMsgId        = "msgId"
	FieldWriteFormat  = "writeFormat"
)

// NewBuilder starts the configuration. The enterprise id and the facility
// are checked by Build.
func NewBuilder(enterpriseId string, facility Facility) *Builder {
	return &Builder{enterpriseId: enterpriseId, facility: facility, format: RFC5424}
}

func (b *Builder) SetAppName(s string) error {
	return setHeaderField(&b.appName, FieldAppName, s, maxAppNameLen)
}

func (b *Builder) SetHostname(s string) error {
	return setHeaderField(&b.hostname, FieldHostname, s, maxHostnameLen)
}

func (b *Builder) SetPid(s string) error {
	return setHeaderField(&b.pid, FieldPid, s, maxPidLen)
}

func (b *Builder) SetMsgId(s string) error {
	return setHeaderField(&b.msgId, FieldMsgId, s, maxMsgIdLen)
}

func (b *Builder) SetWriteFormat(wf WriteFormat) error {
	if wf != RFC5424 && wf != RFC5425 {
		return &ValidationError{Field: FieldWriteFormat, Value: wf.String(), Reason: ReasonUnknown}
	}
	b.format = wf
	return nil
}

// Build checks the required fields and returns the Formatter. The builder
// may be changed and built again, already built formatters are not affected.
func (b *Builder) Build() (*Formatter, error) {
	if err := checkSdName(FieldEnterpriseId, b.enterpriseId); err != nil {
		return nil, err
	}
	if !b.facility.Valid() {
		return nil, &ValidationError{Field: FieldFacility, Value: strconv.Itoa(int(b.facility)), Reason: ReasonUnknown}
	}

	now := b.now
	if now == nil {
		now = time.Now
	}
	return &Formatter{
		sdId:     b.enterpriseId + "@0",
		facility: b.facility,
		appName:  nilValue(b.appName),
		hostname: nilValue(b.hostname),
		pid:      nilValue(b.pid),
		msgId:    nilValue(b.msgId),
		format:   b.format,
		now:      now,
	}, nil
}

func setHeaderField(dst *string, field, val string, maxLen int) error {
	if val == "" {
		return &ValidationError{Field: field, Value: val, Reason: ReasonEmpty}
	}
	if len(val) > maxLen {
		return &ValidationError{Field: field, Value: val, Reason: ReasonTooLong}
	}
	if r, ok := checkPrintUsAscii(val); !ok {
		return &ValidationError{Field: field, Value: val, Reason: r}
	}
	*dst = val
	return nil
}

// checkSdName checks the value is a valid SD-NAME (used for both SD-ID
// prefix and PARAM-NAME).
func checkSdName(field, val string) error {
	if r, ok := sdNameReason(val); !ok {
		return &ValidationError{Field: field, Value: val, Reason: r}
	}
	return nil
}

func sdNameReason(val string) (Reason, bool) {
	if val == "" {
		return ReasonEmpty, false
	}
	if len(val) > maxSdNameLen {
		return ReasonTooLong, false
	}
	if r, ok := checkPrintUsAscii(val); !ok {
		return r, false
	}
	for i := 0; i < len(val); i++ {
		switch val[i] {
		case '=', ']', '"', '@':
			return ReasonReserved, false
		}
	}
	return "", true
}

// checkPrintUsAscii accepts bytes in 33..126 only
func checkPrintUsAscii(s string) (Reason, bool) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f' {
			return ReasonWhitespace, false
		}
		if c < 33 || c > 126 {
			return ReasonNonPrintable, false
		}
	}
	return "", true
}

func nilValue(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
