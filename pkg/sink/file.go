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

package sink

import (
	"os"
	"sync"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

type (
	// fileSink appends to a file. Every Write holds an exclusive lock on
	// the <file>.lock file, so several processes may share the same file
	// without mixing their frames.
	fileSink struct {
		lock sync.Mutex
		f    *os.File
		fl   *flock.Flock
	}
)

func newFileSink(fn string) (*fileSink, error) {
	f, err := os.OpenFile(fn, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open file %s", fn)
	}
	return &fileSink{f: f, fl: flock.New(fn + ".lock")}, nil
}

func (fs *fileSink) Write(p []byte) (int, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.f == nil {
		return 0, os.ErrClosed
	}
	if err := fs.fl.Lock(); err != nil {
		return 0, errors.Wrapf(err, "could not lock %s", fs.fl.Path())
	}
	defer fs.fl.Unlock()
	return fs.f.Write(p)
}

func (fs *fileSink) Close() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.f == nil {
		return nil
	}
	err := fs.f.Close()
	fs.f = nil
	if err1 := fs.fl.Close(); err == nil {
		err = err1
	}
	return err
}
