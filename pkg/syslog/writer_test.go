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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type (
	// shortWriter accepts at most max bytes per Write call
	shortWriter struct {
		bytes.Buffer
		max int
	}

	failingWriter struct {
		after int
		n     int
	}

	closingBuffer struct {
		bytes.Buffer
		closed bool
	}
)

func (sw *shortWriter) Write(p []byte) (int, error) {
	if len(p) > sw.max {
		p = p[:sw.max]
	}
	return sw.Buffer.Write(p)
}

func (fw *failingWriter) Write(p []byte) (int, error) {
	if fw.n+len(p) <= fw.after {
		fw.n += len(p)
		return len(p), nil
	}
	w := fw.after - fw.n
	fw.n = fw.after
	return w, errors.New("connection reset")
}

func (cb *closingBuffer) Close() error {
	cb.closed = true
	return nil
}

func TestWriterRFC5424EndToEnd(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, newTestFormatter(t, RFC5424))
	assert.NoError(t, w.Write(NewEvent(SeverityInfo, "service started")))
	assert.Equal(t, "<14>1 2019-03-14T15:09:26.535897Z 192.0.2.1 myapp 8710 - - service started\n", buf.String())
}

func TestWriterRFC5424SingleTrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, newTestFormatter(t, RFC5424))
	assert.NoError(t, w.Write(NewEvent(SeverityInfo, "m", "k", "v")))
	s := buf.String()
	assert.True(t, strings.HasSuffix(s, "\n"))
	assert.Equal(t, 1, strings.Count(s, "\n"))
}

func TestWriterRFC5425RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	f := newTestFormatter(t, RFC5425)
	w := NewWriter(&buf, f)

	events := []*Event{
		NewEvent(SeverityInfo, "service started"),
		NewEvent(SeverityErr, "multi\nline message with 1 2 3", "a", `"]\`),
		NewEvent(SeverityDebug, "юникод"),
	}
	var exp [][]byte
	for _, e := range events {
		assert.NoError(t, w.Write(e))
		bb, err := f.Render(e)
		assert.NoError(t, err)
		exp = append(exp, bb)
	}

	frames := readOctetCountedFrames(t, buf.Bytes())
	assert.Equal(t, exp, frames)
}

func TestFrame(t *testing.T) {
	msg := []byte("<14>1 - - - - - - hi")
	assert.Equal(t, "20 <14>1 - - - - - - hi", string(RFC5425.Frame(nil, msg)))
	assert.Equal(t, "<14>1 - - - - - - hi\n", string(RFC5424.Frame(nil, msg)))
	assert.Equal(t, "x0 ", string(RFC5425.Frame([]byte("x"), nil)))
}

func TestParseWriteFormat(t *testing.T) {
	wf, err := ParseWriteFormat("RFC5425")
	assert.NoError(t, err)
	assert.Equal(t, RFC5425, wf)
	wf, err = ParseWriteFormat(RFC5424.String())
	assert.NoError(t, err)
	assert.Equal(t, RFC5424, wf)
	_, err = ParseWriteFormat("rfc3164")
	assert.Error(t, err)
}

func TestWriterShortWrites(t *testing.T) {
	sw := &shortWriter{max: 3}
	w := NewWriter(sw, newTestFormatter(t, RFC5425))
	assert.NoError(t, w.Write(NewEvent(SeverityInfo, "short writes", "k", "v")))
	frames := readOctetCountedFrames(t, sw.Bytes())
	assert.Len(t, frames, 1)
	assert.True(t, bytes.HasSuffix(frames[0], []byte(`[enterprise_id@0 k="v"] short writes`)))
}

func TestWriterZeroWrite(t *testing.T) {
	w := NewWriter(&shortWriter{max: 0}, newTestFormatter(t, RFC5424))
	err := w.Write(NewEvent(SeverityInfo, "m"))
	we, ok := err.(*WriteError)
	assert.True(t, ok)
	assert.Equal(t, io.ErrShortWrite, errors.Cause(we))
}

func TestWriterSinkError(t *testing.T) {
	fw := &failingWriter{after: 10}
	w := NewWriter(fw, newTestFormatter(t, RFC5424))

	err := w.Write(NewEvent(SeverityInfo, "m"))
	we, ok := err.(*WriteError)
	if !ok {
		t.Fatal("expected *WriteError, but got ", err)
	}
	assert.Equal(t, "connection reset", errors.Cause(we).Error())

	// the lock must be released on the error path
	err = w.Write(NewEvent(SeverityInfo, "m"))
	_, ok = err.(*WriteError)
	assert.True(t, ok)
}

func TestWriterRenderErrorDoesNotTouchSink(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, newTestFormatter(t, RFC5424))
	err := w.Write(NewEvent(SeverityInfo, "m", "bad key", "v"))
	_, ok := err.(*FieldEncodingError)
	assert.True(t, ok)
	assert.Equal(t, 0, buf.Len())

	assert.NoError(t, w.Write(NewEvent(SeverityInfo, "m")))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestWriterClose(t *testing.T) {
	cb := &closingBuffer{}
	w := NewWriter(cb, newTestFormatter(t, RFC5424))
	assert.NoError(t, w.Close())
	assert.True(t, cb.closed)

	assert.NoError(t, NewWriter(&bytes.Buffer{}, newTestFormatter(t, RFC5424)).Close())
}

func TestWriterConcurrentRFC5425(t *testing.T) {
	testWriterConcurrent(t, RFC5425, func(bb []byte) [][]byte {
		return readOctetCountedFrames(t, bb)
	})
}

func TestWriterConcurrentRFC5424(t *testing.T) {
	testWriterConcurrent(t, RFC5424, func(bb []byte) [][]byte {
		var res [][]byte
		sc := bufio.NewScanner(bytes.NewReader(bb))
		for sc.Scan() {
			res = append(res, append([]byte{}, sc.Bytes()...))
		}
		assert.NoError(t, sc.Err())
		return res
	})
}

func testWriterConcurrent(t *testing.T, wf WriteFormat, split func([]byte) [][]byte) {
	const (
		writers = 8
		writes  = 200
	)
	// tiny writes make interleaving likely if the lock did not work
	sw := &shortWriter{max: 7}
	w := NewWriter(sw, newTestFormatter(t, wf))

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < writes; j++ {
				e := NewEvent(SeverityInfo, fmt.Sprintf("writer %d message %d", id, j),
					"writer", strconv.Itoa(id), "seq", strconv.Itoa(j))
				if err := w.Write(e); err != nil {
					t.Error("write failed, err=", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	frames := split(sw.Bytes())
	assert.Len(t, frames, writers*writes)
	seen := make(map[string]bool)
	for _, fr := range frames {
		s := string(fr)
		assert.True(t, strings.HasPrefix(s, "<14>1 2019-03-14T15:09:26.535897Z 192.0.2.1 myapp 8710 - [enterprise_id@0 writer=\""), s)
		idx := strings.Index(s, "] writer ")
		if idx < 0 {
			t.Fatal("malformed frame ", s)
		}
		seen[s[idx+2:]] = true
	}
	assert.Len(t, seen, writers*writes)
}

// readOctetCountedFrames splits RFC5425 frames and fails if the stream does
// not split cleanly.
func readOctetCountedFrames(t *testing.T, bb []byte) [][]byte {
	var res [][]byte
	for len(bb) > 0 {
		sp := bytes.IndexByte(bb, ' ')
		if sp <= 0 {
			t.Fatalf("no length prefix in %q", bb)
		}
		n, err := strconv.Atoi(string(bb[:sp]))
		if err != nil || n < 0 || sp+1+n > len(bb) {
			t.Fatalf("bad length prefix %q", bb[:sp])
		}
		res = append(res, bb[sp+1:sp+1+n])
		bb = bb[sp+1+n:]
	}
	return res
}
