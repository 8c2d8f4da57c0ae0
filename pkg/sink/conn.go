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
	"net"

	"github.com/logrange/range/pkg/transport"
	"github.com/logrange/syslog5424/pkg/utils"
	"github.com/pkg/errors"
)

func newConnSink(cfg *Config) (net.Conn, error) {
	tcfg := transport.Config{
		TlsEnabled:  utils.BoolPtr(cfg.Type == SnkTypeTLS),
		TlsCAFile:   cfg.TlsCAFile,
		TlsCertFile: cfg.TlsCertFile,
		TlsKeyFile:  cfg.TlsKeyFile,
		ListenAddr:  cfg.RemoteAddr,
	}
	conn, err := transport.NewClientConn(tcfg)
	if err != nil {
		return nil, errors.Wrapf(err, "could not connect to %s over %s", cfg.RemoteAddr, cfg.Type)
	}
	return conn, nil
}
