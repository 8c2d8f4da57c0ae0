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

package main

import (
	"context"
	"os"
	"sort"

	"github.com/VictoriaMetrics/metrics"
	"github.com/jrivets/log4g"
	"github.com/logrange/syslog5424/cmd"
	"github.com/logrange/syslog5424/pkg/appender"
	"github.com/logrange/syslog5424/pkg/sink"
	"github.com/logrange/syslog5424/pkg/syslog"
	"github.com/logrange/syslog5424/sender"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v2"
)

const (
	Version = "0.1.0"
)

const (
	argLogCfgFile = "log-config-file"
	argCfgFile    = "config-file"

	argSendEnterpriseId = "enterprise-id"
	argSendFacility     = "facility"
	argSendAppName      = "app-name"
	argSendHostname     = "hostname"
	argSendPid          = "pid"
	argSendMsgId        = "msgid"
	argSendFormat       = "format"
	argSendSink         = "sink"
	argSendFile         = "file"
	argSendRemoteAddr   = "remote-addr"
	argSendTlsCAFile    = "tls-ca-file"
	argSendPrintMetrics = "print-metrics"
)

func main() {
	defer log4g.Shutdown()
	app := &cli.App{
		Name:    "syslog5424",
		Version: Version,
		Usage:   "Sends lines of stdin as RFC5424 syslog messages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  argLogCfgFile,
				Usage: "log4g configuration file path",
			},
			&cli.StringFlag{
				Name:  argCfgFile,
				Usage: "configuration file path (.json, .yaml or .yml)",
			},
		},
		Before: before,
		Commands: []*cli.Command{
			{
				Name:   "send",
				Usage:  "Read stdin and send every line (plain text or logfmt) as a syslog message",
				Action: runSend,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: argSendEnterpriseId, Usage: "enterprise id, SD-ID of the structured data is <id>@0"},
					&cli.StringFlag{Name: argSendFacility, Usage: "facility name, e.g. user, daemon, local0"},
					&cli.StringFlag{Name: argSendAppName, Usage: "APP-NAME field"},
					&cli.StringFlag{Name: argSendHostname, Usage: "HOSTNAME field"},
					&cli.StringFlag{Name: argSendPid, Usage: "PROCID field"},
					&cli.StringFlag{Name: argSendMsgId, Usage: "MSGID field"},
					&cli.StringFlag{Name: argSendFormat, Usage: "rfc5424 (new line delimited) or rfc5425 (octet counted)"},
					&cli.StringFlag{Name: argSendSink, Usage: "sink type: stdout, stderr, file, tcp or tls"},
					&cli.StringFlag{Name: argSendFile, Usage: "file name for the file sink"},
					&cli.StringFlag{Name: argSendRemoteAddr, Usage: "host:port for tcp and tls sinks"},
					&cli.StringFlag{Name: argSendTlsCAFile, Usage: "root CA file for the tls sink"},
					&cli.BoolFlag{Name: argSendPrintMetrics, Usage: "print metrics to stderr when done"},
				},
			},
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.FlagsByName(app.Commands[0].Flags))
	if err := app.Run(os.Args); err != nil {
		getLogger().Fatal("Failed to run syslog5424, cause: ", err)
		log4g.Shutdown()
		os.Exit(1)
	}
}

func before(c *cli.Context) error {
	if err := appender.Register(); err != nil {
		return err
	}
	logCfgFile := c.String(argLogCfgFile)
	if logCfgFile != "" {
		if err := log4g.ConfigF(logCfgFile); err != nil {
			return errors.Wrapf(err, "could not parse %s file as a log4g configuration", logCfgFile)
		}
	}
	return nil
}

func runSend(c *cli.Context) error {
	logger := getLogger()
	cfg := sender.NewDefaultConfig()

	cfgFile := c.String(argCfgFile)
	if cfgFile != "" {
		logger.Info("Loading config from=", cfgFile)
		config, err := sender.LoadCfgFromFile(cfgFile)
		if err != nil {
			return err
		}
		cfg.Apply(config)
	}
	applyArgsToCfg(c, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd.NewNotifierOnIntTermSignal(func(s os.Signal) {
		logger.Warn("Handling signal=", s)
		cancel()
	})

	st, err := sender.Run(ctx, cfg, os.Stdin)
	logger.Info("Done: ", st)
	if c.Bool(argSendPrintMetrics) {
		metrics.WritePrometheus(os.Stderr, false)
	}
	if err == context.Canceled {
		return nil
	}
	return err
}

func applyArgsToCfg(c *cli.Context, cfg *sender.Config) {
	cfg.Syslog.Apply(&syslog.Config{
		EnterpriseId: c.String(argSendEnterpriseId),
		Facility:     c.String(argSendFacility),
		AppName:      c.String(argSendAppName),
		Hostname:     c.String(argSendHostname),
		Pid:          c.String(argSendPid),
		MsgId:        c.String(argSendMsgId),
		WriteFormat:  c.String(argSendFormat),
	})
	cfg.Sink.Apply(&sink.Config{
		Type:       c.String(argSendSink),
		File:       c.String(argSendFile),
		RemoteAddr: c.String(argSendRemoteAddr),
		TlsCAFile:  c.String(argSendTlsCAFile),
	})
}

func getLogger() log4g.Logger {
	return log4g.GetLogger("syslog5424")
}
