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

// WriteFormat defines how a rendered message is delimited on the wire
type WriteFormat int

const (
	// RFC5424 terminates every message by a single '\n'
	RFC5424 WriteFormat = iota
	// RFC5425 prefixes every message by its length in bytes and a space
	RFC5425
)

func (wf WriteFormat) String() string {
	switch wf {
	case RFC5424:
		return "rfc5424"
	case RFC5425:
		return "rfc5425"
	}
	return "writeformat(" + strconv.Itoa(int(wf)) + ")"
}

// ParseWriteFormat returns the format by its name, "rfc5424" or "rfc5425"
func ParseWriteFormat(n string) (WriteFormat, error) {
	switch strings.ToLower(strings.TrimSpace(n)) {
	case "rfc5424", "5424":
		return RFC5424, nil
	case "rfc5425", "5425", "octet-counting":
		return RFC5425, nil
	}
	return -1, errors.Errorf("unknown write format: %s", n)
}

// Frame appends msg, framed according to the format, to dst and returns the
// extended slice.
func (wf WriteFormat) Frame(dst, msg []byte) []byte {
	if wf == RFC5425 {
		dst = strconv.AppendInt(dst, int64(len(msg)), 10)
		dst = append(dst, ' ')
		return append(dst, msg...)
	}
	dst = append(dst, msg...)
	return append(dst, '\n')
}
