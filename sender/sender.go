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
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jrivets/log4g"
	"github.com/logrange/syslog5424/pkg/sink"
	"github.com/logrange/syslog5424/pkg/syslog"
	"github.com/pkg/errors"
)

type (
	// Stats contains the counters of one Run
	Stats struct {
		Lines   uint64
		Sent    uint64
		Skipped uint64
		Bytes   uint64
	}

	// countingWriter counts bytes accepted by the sink
	countingWriter struct {
		w io.Writer
		n *uint64
	}
)

const maxLineSize = 64 * 1024

// Run sends every non-empty line of in as one syslog message to the sink
// described by cfg. Lines which cannot be parsed or rendered are skipped,
// a sink error stops the run. The run stops when in is over or ctx is
// cancelled. If in is an io.Closer it is closed when ctx is cancelled to
// interrupt a blocked read, otherwise the cancellation is noticed only
// when the next line arrives.
func Run(ctx context.Context, cfg *Config, in io.Reader) (Stats, error) {
	var st Stats
	logger := log4g.GetLogger("sender")

	if err := cfg.Check(); err != nil {
		return st, errors.Wrapf(err, "invalid config")
	}
	f, err := syslog.NewFormatter(cfg.Syslog)
	if err != nil {
		return st, err
	}
	s, err := sink.NewSink(cfg.Sink)
	if err != nil {
		return st, err
	}

	w := syslog.NewWriter(&countingWriter{w: s, n: &st.Bytes}, f)
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warn("Could not close sink=", cfg.Sink, ", err=", err)
		}
	}()
	logger.Info("Sending to ", cfg.Sink.Type, " sink, format=", f.WriteFormat())

	if c, ok := in.(io.Closer); ok {
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				c.Close()
			case <-done:
			}
		}()
	}

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 4096), maxLineSize)
	for ctx.Err() == nil && sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		st.Lines++

		e, err := ParseLine(line)
		if err != nil {
			logger.Warn("Skipping line ", st.Lines, ", err=", err)
			st.Skipped++
			continue
		}

		err = w.Write(e)
		if _, ok := err.(*syslog.FieldEncodingError); ok {
			logger.Warn("Skipping line ", st.Lines, ", err=", err)
			st.Skipped++
			continue
		}
		if err != nil {
			return st, err
		}
		st.Sent++
	}

	if err := ctx.Err(); err != nil {
		return st, err
	}
	if err := sc.Err(); err != nil {
		return st, errors.Wrapf(err, "could not read input")
	}
	return st, nil
}

func (st Stats) String() string {
	return fmt.Sprintf("lines=%s, sent=%s, skipped=%s, bytes=%s", humanize.Comma(int64(st.Lines)),
		humanize.Comma(int64(st.Sent)), humanize.Comma(int64(st.Skipped)), humanize.Bytes(st.Bytes))
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	*cw.n += uint64(n)
	return n, err
}
