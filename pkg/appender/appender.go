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

/*
Package appender contains the log4g appender which sends log4g events as
RFC5424 messages. The appender is registered by Register() and configured
via log4g properties, for example:

	appender.syslog.type=syslog5424/appender
	appender.syslog.enterpriseId=logrange
	appender.syslog.facility=local0
	appender.syslog.appName=lr-fwd
	appender.syslog.sink=tcp
	appender.syslog.remoteAddr=127.0.0.1:514
	appender.syslog.writeFormat=rfc5425
	context.appenders=syslog
*/
package appender

import (
	"fmt"

	"github.com/jrivets/gorivets"
	"github.com/jrivets/log4g"
	"github.com/logrange/syslog5424/pkg/sink"
	"github.com/logrange/syslog5424/pkg/syslog"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

type (
	appenderConfig struct {
		syslog.Config `mapstructure:",squash"`

		// Sink is the sink type, "type" is reserved by log4g
		Sink        string
		File        string
		RemoteAddr  string
		TlsCAFile   string
		TlsCertFile string
		TlsKeyFile  string
	}

	appender struct {
		w         *syslog.Writer
		replaceNL bool
	}

	factory struct {
	}
)

const (
	// Name is the appender type to be used in log4g configuration
	Name = "syslog5424/appender"

	// ParamReplaceNewLine makes the appender replace new lines in messages
	// and field values by spaces, true by default
	ParamReplaceNewLine = "replaceNewLine"

	FieldLogger = "logger"
	FieldId     = "id"
)

// Register registers the appender factory in log4g. Must be called before
// log4g.ConfigF() which refers to the appender.
func Register() error {
	return log4g.RegisterAppender(&factory{})
}

//===================== factory =====================

func (*factory) Name() string {
	return Name
}

func (*factory) NewAppender(params map[string]string) (log4g.Appender, error) {
	cfg := &appenderConfig{Config: *syslog.NewDefaultConfig()}
	if err := mapstructure.WeakDecode(params, cfg); err != nil {
		return nil, errors.Wrapf(err, "could not decode %s params", Name)
	}

	replaceNL, err := gorivets.ParseBool(params[ParamReplaceNewLine], true)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s=%s", ParamReplaceNewLine, params[ParamReplaceNewLine])
	}

	if err = cfg.Config.Check(); err != nil {
		return nil, err
	}
	f, err := syslog.NewFormatter(&cfg.Config)
	if err != nil {
		return nil, err
	}

	scfg := sink.NewDefaultConfig()
	scfg.Apply(&sink.Config{
		Type:        cfg.Sink,
		File:        cfg.File,
		RemoteAddr:  cfg.RemoteAddr,
		TlsCAFile:   cfg.TlsCAFile,
		TlsCertFile: cfg.TlsCertFile,
		TlsKeyFile:  cfg.TlsKeyFile,
	})
	s, err := sink.NewSink(scfg)
	if err != nil {
		return nil, err
	}
	return New(syslog.NewWriter(s, f), replaceNL), nil
}

func (*factory) Shutdown() {
}

//===================== appender =====================

// New returns log4g.Appender which writes to w.
func New(w *syslog.Writer, replaceNL bool) log4g.Appender {
	return &appender{w: w, replaceNL: replaceNL}
}

// Append returns false if the event could not be rendered or written. The
// error is not reported anywhere, the appender cannot log its own failures.
func (a *appender) Append(le *log4g.Event) bool {
	return a.w.Write(ToEvent(le, a.replaceNL)) == nil
}

func (a *appender) Shutdown() {
	_ = a.w.Close()
}

// ToEvent converts the log4g event. The logger name and the logger id go
// first, then the fields of the payload if it is a syslog event or fields.
func ToEvent(le *log4g.Event, replaceNL bool) *syslog.Event {
	e := &syslog.Event{Time: le.Timestamp, Severity: ToSeverity(le.Level)}
	if le.LoggerName != "" {
		e.Fields.Set(FieldLogger, le.LoggerName)
	}
	if le.Id != nil {
		e.Fields.Set(FieldId, fmt.Sprint(le.Id))
	}

	switch p := le.Payload.(type) {
	case *syslog.Event:
		e.Message = p.Message
		addFields(e, p.Fields)
	case syslog.Event:
		e.Message = p.Message
		addFields(e, p.Fields)
	case syslog.Fields:
		addFields(e, p)
	case nil:
	default:
		e.Message = fmt.Sprint(p)
	}

	if replaceNL {
		e.ReplaceNewLines()
	}
	return e
}

// ToSeverity maps log4g levels, custom levels between the predefined ones
// go to the less severe neighbour.
func ToSeverity(l log4g.Level) syslog.Severity {
	switch {
	case l <= log4g.FATAL:
		return syslog.SeverityCrit
	case l <= log4g.ERROR:
		return syslog.SeverityErr
	case l <= log4g.WARN:
		return syslog.SeverityWarning
	case l <= log4g.INFO:
		return syslog.SeverityInfo
	}
	return syslog.SeverityDebug
}

func addFields(e *syslog.Event, ff syslog.Fields) {
	for _, f := range ff {
		e.Fields.Set(f.Key, f.Value)
	}
}
