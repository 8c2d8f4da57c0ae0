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
	"context"
	"log/slog"

	"github.com/logrange/syslog5424/pkg/syslog"
	"github.com/logrange/syslog5424/pkg/utils"
)

type (
	// Options for the Handler. The zero value logs Info and above and
	// replaces new lines in messages and attribute values by spaces.
	Options struct {
		Level slog.Leveler
		// ReplaceNewLine is true if nil. Set it to false only for RFC5425
		// framing, a new line ends an RFC5424 frame.
		ReplaceNewLine *bool
	}

	// Handler is slog.Handler which sends records as RFC5424 messages. The
	// record attributes become the STRUCTURED-DATA params in the order they
	// were added, group names prefix the keys as "group.key".
	Handler struct {
		w      *syslog.Writer
		opts   Options
		fields syslog.Fields
		prefix string
	}
)

// New returns the handler writing to w. Handlers derived by WithAttrs and
// WithGroup share w.
func New(w *syslog.Writer, opts *Options) *Handler {
	h := &Handler{w: w}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return l >= minLevel
}

// Handle returns *syslog.FieldEncodingError if an attribute key cannot be
// used as a param name, and *syslog.WriteError if the sink fails.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	e := &syslog.Event{
		Time:     r.Time,
		Severity: ToSeverity(r.Level),
		Message:  r.Message,
		Fields:   make(syslog.Fields, len(h.fields), len(h.fields)+r.NumAttrs()),
	}
	copy(e.Fields, h.fields)
	r.Attrs(func(a slog.Attr) bool {
		addAttr(&e.Fields, h.prefix, a)
		return true
	})
	if utils.GetBoolVal(h.opts.ReplaceNewLine, true) {
		e.ReplaceNewLines()
	}
	return h.w.Write(e)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	for _, a := range attrs {
		addAttr(&h2.fields, h2.prefix, a)
	}
	return h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.prefix += name + "."
	return h2
}

func (h *Handler) clone() *Handler {
	h2 := *h
	h2.fields = append(syslog.Fields(nil), h.fields...)
	return &h2
}

// ToSeverity maps slog levels. Levels between the predefined ones go to
// the less severe neighbour, levels above Error by 4 and more are critical.
func ToSeverity(l slog.Level) syslog.Severity {
	switch {
	case l >= slog.LevelError+4:
		return syslog.SeverityCrit
	case l >= slog.LevelError:
		return syslog.SeverityErr
	case l >= slog.LevelWarn:
		return syslog.SeverityWarning
	case l >= slog.LevelInfo:
		return syslog.SeverityInfo
	}
	return syslog.SeverityDebug
}

func addAttr(ff *syslog.Fields, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			addAttr(ff, prefix, ga)
		}
		return
	}
	ff.Set(prefix+a.Key, a.Value.String())
}
