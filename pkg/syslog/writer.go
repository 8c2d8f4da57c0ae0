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
	"io"
	"sync"

	"github.com/VictoriaMetrics/metrics"
)

type (
	// Writer renders events, frames them and writes the frames into the
	// sink. Concurrent Write calls are serialized, so frames never
	// interleave. There is no retry: if the sink fails in the middle of a
	// frame, the partial frame stays in the sink and *WriteError is returned.
	Writer struct {
		lock sync.Mutex
		w    io.Writer
		f    *Formatter
		msg  []byte
		frm  []byte
	}
)

var (
	messagesWritten = metrics.NewCounter(`syslog5424_messages_written_total`)
	bytesWritten    = metrics.NewCounter(`syslog5424_bytes_written_total`)
	renderErrors    = metrics.NewCounter(`syslog5424_errors_total{type="render"}`)
	writeErrors     = metrics.NewCounter(`syslog5424_errors_total{type="write"}`)
)

//===================== writer =====================

func NewWriter(w io.Writer, f *Formatter) *Writer {
	return &Writer{w: w, f: f}
}

// Write renders the event and writes one frame to the sink. Returns
// *FieldEncodingError if the event cannot be rendered (the sink is not
// touched), or *WriteError if the sink fails.
func (wr *Writer) Write(e *Event) error {
	wr.lock.Lock()
	defer wr.lock.Unlock()

	var err error
	wr.msg, err = wr.f.AppendRender(wr.msg[:0], e)
	if err != nil {
		renderErrors.Inc()
		return err
	}
	wr.frm = wr.f.format.Frame(wr.frm[:0], wr.msg)

	n, err := writeFull(wr.w, wr.frm)
	bytesWritten.Add(n)
	if err != nil {
		writeErrors.Inc()
		return &WriteError{Err: err}
	}
	messagesWritten.Inc()
	return nil
}

// Close closes the sink, if it is an io.Closer
func (wr *Writer) Close() error {
	wr.lock.Lock()
	defer wr.lock.Unlock()
	if c, ok := wr.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// writeFull writes buf, continuing after short writes until everything is
// written or the sink returns an error.
func writeFull(w io.Writer, buf []byte) (int, error) {
	total := 0
	for len(buf) > 0 {
		n, err := w.Write(buf)
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
		buf = buf[n:]
	}
	return total, nil
}
