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
	"fmt"

	"github.com/logrange/syslog5424/pkg/utils"
	"github.com/mohae/deepcopy"
)

type (
	// Config is the textual form of the identity fields, as it comes from
	// configuration files or appender params. Empty optional fields are
	// rendered as "-".
	Config struct {
		EnterpriseId string `yaml:"EnterpriseId"`
		Facility     string `yaml:"Facility"`
		AppName      string `yaml:"AppName"`
		Hostname     string `yaml:"Hostname"`
		Pid          string `yaml:"Pid"`
		MsgId        string `yaml:"MsgId"`
		WriteFormat  string `yaml:"WriteFormat"`
	}
)

//===================== config =====================

func NewDefaultConfig() *Config {
	return &Config{
		Facility:    FacilityUser.String(),
		WriteFormat: RFC5424.String(),
	}
}

func (c *Config) Apply(other *Config) {
	if other == nil {
		return
	}
	if other.EnterpriseId != "" {
		c.EnterpriseId = other.EnterpriseId
	}
	if other.Facility != "" {
		c.Facility = other.Facility
	}
	if other.AppName != "" {
		c.AppName = other.AppName
	}
	if other.Hostname != "" {
		c.Hostname = other.Hostname
	}
	if other.Pid != "" {
		c.Pid = other.Pid
	}
	if other.MsgId != "" {
		c.MsgId = other.MsgId
	}
	if other.WriteFormat != "" {
		c.WriteFormat = other.WriteFormat
	}
}

// Check checks the enumerated values and the required fields only, the
// identity fields are validated by NewFormatter.
func (c *Config) Check() error {
	if c.EnterpriseId == "" {
		return fmt.Errorf("invalid config; EnterpriseId=%v, must be non-empty", c.EnterpriseId)
	}
	if _, err := ParseFacility(c.Facility); err != nil {
		return fmt.Errorf("invalid config; Facility=%v: %v", c.Facility, err)
	}
	if _, err := ParseWriteFormat(c.WriteFormat); err != nil {
		return fmt.Errorf("invalid config; WriteFormat=%v: %v", c.WriteFormat, err)
	}
	return nil
}

func (c *Config) String() string {
	return utils.ToJsonStr(c)
}

// NewFormatter validates the config through the Builder and returns the
// formatter. All identity errors are *ValidationError.
func NewFormatter(cfg *Config) (*Formatter, error) {
	if cfg == nil {
		return nil, &ValidationError{Field: FieldEnterpriseId, Reason: ReasonEmpty}
	}
	cfg = deepcopy.Copy(cfg).(*Config)

	fac, err := ParseFacility(cfg.Facility)
	if err != nil {
		return nil, &ValidationError{Field: FieldFacility, Value: cfg.Facility, Reason: ReasonUnknown}
	}
	wf, err := ParseWriteFormat(cfg.WriteFormat)
	if err != nil {
		return nil, &ValidationError{Field: FieldWriteFormat, Value: cfg.WriteFormat, Reason: ReasonUnknown}
	}

	b := NewBuilder(cfg.EnterpriseId, fac)
	if err = b.SetWriteFormat(wf); err != nil {
		return nil, err
	}
	setters := []struct {
		val string
		set func(string) error
	}{
		{cfg.AppName, b.SetAppName},
		{cfg.Hostname, b.SetHostname},
		{cfg.Pid, b.SetPid},
		{cfg.MsgId, b.SetMsgId},
	}
	for _, s := range setters {
		if s.val == "" {
			continue
		}
		if err = s.set(s.val); err != nil {
			return nil, err
		}
	}
	return b.Build()
}
