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
	"fmt"
	"io"
	"os"

	"github.com/logrange/syslog5424/pkg/utils"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

type (
	// Config describes where the framed syslog messages go to
	Config struct {
		Type        string `yaml:"Type"`
		File        string `yaml:"File"`
		RemoteAddr  string `yaml:"RemoteAddr"`
		TlsCAFile   string `yaml:"TlsCAFile"`
		TlsCertFile string `yaml:"TlsCertFile"`
		TlsKeyFile  string `yaml:"TlsKeyFile"`
	}

	stdSink struct {
		*os.File
	}
)

const (
	SnkTypeStdout = "stdout"
	SnkTypeStderr = "stderr"
	SnkTypeFile   = "file"
	SnkTypeTCP    = "tcp"
	SnkTypeTLS    = "tls"
)

// NewSink opens the sink described by cfg. The sink performs no retries,
// a broken connection is reported by Write and must be re-opened by the
// caller.
func NewSink(cfg *Config) (io.WriteCloser, error) {
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid config; %v", err)
	}

	switch cfg.Type {
	case SnkTypeStdout:
		return stdSink{os.Stdout}, nil
	case SnkTypeStderr:
		return stdSink{os.Stderr}, nil
	case SnkTypeFile:
		fs, err := newFileSink(cfg.File)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case SnkTypeTCP, SnkTypeTLS:
		return newConnSink(cfg)
	}
	return nil, fmt.Errorf("unknown sink type=%v", cfg.Type)
}

// NewSinkFromParams decodes params (weakly typed, case insensitive keys)
// into Config and opens the sink.
func NewSinkFromParams(params map[string]interface{}) (io.WriteCloser, error) {
	cfg, err := DecodeParams(params)
	if err != nil {
		return nil, err
	}
	return NewSink(cfg)
}

// DecodeParams decodes params into a new Config
func DecodeParams(params interface{}) (*Config, error) {
	cfg := NewDefaultConfig()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err == nil {
		err = dec.Decode(params)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode sink Params=%v", params)
	}
	return cfg, nil
}

// Close does nothing, the standard streams stay open
func (stdSink) Close() error {
	return nil
}

//===================== config =====================

func NewDefaultConfig() *Config {
	return &Config{Type: SnkTypeStderr}
}

func (c *Config) Apply(other *Config) {
	if other == nil {
		return
	}
	if other.Type != "" {
		c.Type = other.Type
	}
	if other.File != "" {
		c.File = other.File
	}
	if other.RemoteAddr != "" {
		c.RemoteAddr = other.RemoteAddr
	}
	if other.TlsCAFile != "" {
		c.TlsCAFile = other.TlsCAFile
	}
	if other.TlsCertFile != "" {
		c.TlsCertFile = other.TlsCertFile
	}
	if other.TlsKeyFile != "" {
		c.TlsKeyFile = other.TlsKeyFile
	}
}

func (c *Config) Check() error {
	switch c.Type {
	case SnkTypeStdout, SnkTypeStderr:
	case SnkTypeFile:
		if c.File == "" {
			return fmt.Errorf("invalid File=%v, must be non-empty for Type=%v", c.File, c.Type)
		}
	case SnkTypeTCP, SnkTypeTLS:
		if c.RemoteAddr == "" {
			return fmt.Errorf("invalid RemoteAddr=%v, must be non-empty for Type=%v", c.RemoteAddr, c.Type)
		}
	default:
		return fmt.Errorf("unknown Type=%v", c.Type)
	}
	if c.Type != SnkTypeTLS && (c.TlsCAFile != "" || c.TlsCertFile != "" || c.TlsKeyFile != "") {
		return fmt.Errorf("Tls files must be empty if Type == %v", c.Type)
	}
	if (c.TlsCertFile == "") != (c.TlsKeyFile == "") {
		return fmt.Errorf("both TlsCertFile and TlsKeyFile must be specified, or none of them")
	}
	return nil
}

func (c *Config) String() string {
	return utils.ToJsonStr(c)
}
