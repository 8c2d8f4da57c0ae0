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

package sender

import (
	"strings"
	"time"

	"github.com/kr/logfmt"
	"github.com/logrange/syslog5424/pkg/syslog"
	"github.com/pkg/errors"
)

type (
	// lineHandler collects logfmt pairs into an event, keeping their order
	lineHandler struct {
		e *syslog.Event
	}
)

// ParseLine turns one input line into an event. A line without '=' is the
// message itself with info severity. Otherwise the line is parsed as
// logfmt: "msg"/"message" is the message, "level"/"severity" the
// severity, "time"/"ts" (RFC3339) the timestamp and the rest are fields.
// Quoted logfmt values may carry escaped new lines, they are replaced by
// spaces so one line always gives one frame.
func ParseLine(line string) (*syslog.Event, error) {
	line = strings.TrimRight(line, "\r\n")
	e := &syslog.Event{Severity: syslog.SeverityInfo}
	if strings.IndexByte(line, '=') < 0 {
		e.Message = line
	} else if err := logfmt.Unmarshal([]byte(line), &lineHandler{e: e}); err != nil {
		return nil, errors.Wrapf(err, "could not parse line %q", line)
	}
	e.ReplaceNewLines()
	return e, nil
}

func (lh *lineHandler) HandleLogfmt(key, val []byte) error {
	k := string(key)
	switch strings.ToLower(k) {
	case "msg", "message":
		lh.e.Message = string(val)
	case "level", "severity":
		s, err := syslog.ParseSeverity(string(val))
		if err != nil {
			return err
		}
		lh.e.Severity = s
	case "time", "ts":
		t, err := time.Parse(time.RFC3339Nano, string(val))
		if err != nil {
			return errors.Wrapf(err, "invalid %s=%s", k, val)
		}
		lh.e.Time = t
	default:
		lh.e.Fields.Set(k, string(val))
	}
	return nil
}
