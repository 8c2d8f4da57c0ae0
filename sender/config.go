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
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/logrange/syslog5424/pkg/sink"
	"github.com/logrange/syslog5424/pkg/syslog"
	"github.com/logrange/syslog5424/pkg/utils"
	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Config struct contains the sender configuration
	Config struct {
		// Syslog defines the identity fields of the messages
		Syslog *syslog.Config `yaml:"Syslog"`
		// Sink defines where the messages are written to
		Sink *sink.Config `yaml:"Sink"`
	}
)

func NewDefaultConfig() *Config {
	return &Config{
		Syslog: syslog.NewDefaultConfig(),
		Sink:   sink.NewDefaultConfig(),
	}
}

// LoadCfgFromFile reads the config file, YAML if the file extension is
// .yaml or .yml, JSON otherwise. Both formats use the field names as keys.
func LoadCfgFromFile(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read data from config file %s", path)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not unmarshal data from config file %s", path)
	}
	return cfg, nil
}

func (c *Config) Apply(other *Config) {
	if other == nil {
		return
	}
	if other.Syslog != nil {
		if c.Syslog == nil {
			c.Syslog = deepcopy.Copy(other.Syslog).(*syslog.Config)
		} else {
			c.Syslog.Apply(other.Syslog)
		}
	}
	if other.Sink != nil {
		if c.Sink == nil {
			c.Sink = deepcopy.Copy(other.Sink).(*sink.Config)
		} else {
			c.Sink.Apply(other.Sink)
		}
	}
}

func (c *Config) Check() error {
	if c.Syslog == nil {
		return fmt.Errorf("invalid Syslog=nil, must be non-nil")
	}
	if c.Sink == nil {
		return fmt.Errorf("invalid Sink=nil, must be non-nil")
	}
	if err := c.Syslog.Check(); err != nil {
		return fmt.Errorf("invalid Syslog=%v: %v", c.Syslog, err)
	}
	if err := c.Sink.Check(); err != nil {
		return fmt.Errorf("invalid Sink=%v: %v", c.Sink, err)
	}
	return nil
}

func (c *Config) String() string {
	return utils.ToJsonStr(c)
}
