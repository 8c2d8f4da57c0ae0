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

	"github.com/pkg/errors"
)

type (
	// Severity is the RFC5424 severity, 0 (emergency) .. 7 (debug)
	Severity int

	// Facility is the RFC5424 facility code, 0 (kern) .. 23 (local7)
	Facility int
)

const (
	SeverityEmerg Severity = iota
	SeverityAlert
	SeverityCrit
	SeverityErr
	SeverityWarning
	SeverityNotice
	SeverityInfo
	SeverityDebug
)

const (
	FacilityKern Facility = iota
	FacilityUser
	FacilityMail
	FacilityDaemon
	FacilityAuth
	FacilitySyslog
	FacilityLPR
	FacilityNews
	FacilityUUCP
	FacilityCron
	FacilityAuthPriv
	FacilityFTP
	FacilityNTP
	FacilityAudit
	FacilityAlert
	FacilityClock
	FacilityLocal0
	FacilityLocal1
	FacilityLocal2
	FacilityLocal3
	FacilityLocal4
	FacilityLocal5
	FacilityLocal6
	FacilityLocal7
)

var severityNames = [...]string{
	SeverityEmerg:   "emerg",
	SeverityAlert:   "alert",
	SeverityCrit:    "crit",
	SeverityErr:     "err",
	SeverityWarning: "warning",
	SeverityNotice:  "notice",
	SeverityInfo:    "info",
	SeverityDebug:   "debug",
}

// severityAliases are accepted by ParseSeverity in addition to severityNames
var severityAliases = map[string]Severity{
	"emergency": SeverityEmerg,
	"critical":  SeverityCrit,
	"error":     SeverityErr,
	"warn":      SeverityWarning,
	"fatal":     SeverityCrit,
	"trace":     SeverityDebug,
}

var facilityNames = [...]string{
	FacilityKern:     "kern",
	FacilityUser:     "user",
	FacilityMail:     "mail",
	FacilityDaemon:   "daemon",
	FacilityAuth:     "auth",
	FacilitySyslog:   "syslog",
	FacilityLPR:      "lpr",
	FacilityNews:     "news",
	FacilityUUCP:     "uucp",
	FacilityCron:     "cron",
	FacilityAuthPriv: "authpriv",
	FacilityFTP:      "ftp",
	FacilityNTP:      "ntp",
	FacilityAudit:    "audit",
	FacilityAlert:    "alert",
	FacilityClock:    "clock",
	FacilityLocal0:   "local0",
	FacilityLocal1:   "local1",
	FacilityLocal2:   "local2",
	FacilityLocal3:   "local3",
	FacilityLocal4:   "local4",
	FacilityLocal5:   "local5",
	FacilityLocal6:   "local6",
	FacilityLocal7:   "local7",
}

// Valid returns whether the severity is in the 0..7 range
func (s Severity) Valid() bool {
	return s >= SeverityEmerg && s <= SeverityDebug
}

func (s Severity) String() string {
	if !s.Valid() {
		return "severity(" + strconv.Itoa(int(s)) + ")"
	}
	return severityNames[s]
}

// Valid returns whether the facility is one of the 24 standard ones
func (f Facility) Valid() bool {
	return f >= FacilityKern && f <= FacilityLocal7
}

func (f Facility) String() string {
	if !f.Valid() {
		return "facility(" + strconv.Itoa(int(f)) + ")"
	}
	return facilityNames[f]
}

// Priority returns the PRI value for the facility and the severity provided.
func Priority(f Facility, s Severity) int {
	return int(f)<<3 | int(s)
}

// ParseSeverity returns the severity by its name ("info", "err", ...) or by
// its numeric code ("0".."7").
func ParseSeverity(n string) (Severity, error) {
	n = strings.ToLower(strings.TrimSpace(n))
	for i, sn := range severityNames {
		if sn == n {
			return Severity(i), nil
		}
	}
	if s, ok := severityAliases[n]; ok {
		return s, nil
	}
	if c, err := strconv.Atoi(n); err == nil && Severity(c).Valid() {
		return Severity(c), nil
	}
	return -1, errors.Errorf("unknown severity: %s", n)
}

// ParseFacility returns the facility by its name ("user", "local0", ...) or
// by its numeric code ("0".."23").
func ParseFacility(n string) (Facility, error) {
	n = strings.ToLower(strings.TrimSpace(n))
	for i, fn := range facilityNames {
		if fn == n {
			return Facility(i), nil
		}
	}
	if c, err := strconv.Atoi(n); err == nil && Facility(c).Valid() {
		return Facility(c), nil
	}
	return -1, errors.Errorf("unknown facility: %s", n)
}
