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

package handler

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/logrange/syslog5424/pkg/syslog"
	"github.com/logrange/syslog5424/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func newTestLogger(t *testing.T, opts *Options) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	b := syslog.NewBuilder("eid", syslog.FacilityUser)
	assert.NoError(t, b.SetAppName("app"))
	f, err := b.Build()
	assert.NoError(t, err)
	return slog.New(New(syslog.NewWriter(&buf, f), opts)), &buf
}

func TestHandlerAttrsOrder(t *testing.T) {
	l, buf := newTestLogger(t, nil)
	l.Info("service started", "address", "example.com", "port", 54201)
	s := buf.String()
	assert.True(t, strings.HasPrefix(s, "<14>1 "))
	assert.True(t, strings.HasSuffix(s, ` app - - [eid@0 address="example.com" port="54201"] service started`+"\n"), s)
}

func TestHandlerGroupsAndWithAttrs(t *testing.T) {
	l, buf := newTestLogger(t, nil)
	l = l.With("svc", "api").WithGroup("req")
	l.Warn("slow", "id", 7, slog.Group("peer", "ip", "192.0.2.1"), slog.Group("", "inline", "x"))
	assert.Contains(t, buf.String(), `<12>1 `)
	assert.Contains(t, buf.String(), `[eid@0 svc="api" req.id="7" req.peer.ip="192.0.2.1" req.inline="x"] slow`)
}

func TestHandlerLevels(t *testing.T) {
	l, buf := newTestLogger(t, &Options{Level: slog.LevelDebug})
	l.Debug("d")
	assert.Contains(t, buf.String(), "<15>1 ")

	l, buf = newTestLogger(t, nil)
	l.Debug("d")
	assert.Equal(t, 0, buf.Len())

	assert.Equal(t, syslog.SeverityCrit, ToSeverity(slog.LevelError+4))
	assert.Equal(t, syslog.SeverityErr, ToSeverity(slog.LevelError))
	assert.Equal(t, syslog.SeverityWarning, ToSeverity(slog.LevelWarn+1))
	assert.Equal(t, syslog.SeverityInfo, ToSeverity(slog.LevelInfo))
	assert.Equal(t, syslog.SeverityDebug, ToSeverity(slog.LevelDebug))
}

func TestHandlerReplaceNewLine(t *testing.T) {
	l, buf := newTestLogger(t, nil)
	l.Error("line1\nline2")
	assert.True(t, strings.HasSuffix(buf.String(), " - line1 line2\n"))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))

	buf.Reset()
	l.Info("a\r\nb", "k", "c\nd")
	assert.True(t, strings.HasSuffix(buf.String(), `[eid@0 k="c d"] a b`+"\n"), buf.String())
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))

	l, buf = newTestLogger(t, &Options{ReplaceNewLine: utils.BoolPtr(false)})
	l.Info("line1\nline2")
	assert.True(t, strings.HasSuffix(buf.String(), " - line1\nline2\n"))
}

func TestHandlerBadKey(t *testing.T) {
	var buf bytes.Buffer
	f, err := syslog.NewBuilder("eid", syslog.FacilityUser).Build()
	assert.NoError(t, err)
	h := New(syslog.NewWriter(&buf, f), nil)

	l := slog.New(h)
	l.Info("m", "bad key", 1)
	assert.Equal(t, 0, buf.Len())
	l.Info("m", "good", 1)
	assert.Contains(t, buf.String(), `[eid@0 good="1"] m`)
	assert.Equal(t, h, h.WithGroup(""))
	assert.Equal(t, h, h.WithAttrs(nil))
}
