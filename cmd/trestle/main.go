/*
 * Copyright 2024 The Trestle Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Trestle is a standalone front end for the trestle server runtime. It
// loads a configuration file, starts the connection engine, and reloads
// the configuration on SIGHUP or when the file changes on disk.
package main

import (
	"flag"
	"fmt"
	"os"
	goruntime "runtime"

	"github.com/trickstercache/trestle/pkg/appinfo"
	"github.com/trickstercache/trestle/pkg/config"
	"github.com/trickstercache/trestle/pkg/handlers"
	"github.com/trickstercache/trestle/pkg/observability/logging"
	"github.com/trickstercache/trestle/pkg/observability/logging/logger"
	"github.com/trickstercache/trestle/pkg/observability/metrics"
	"github.com/trickstercache/trestle/pkg/request"
	"github.com/trickstercache/trestle/pkg/response"
	"github.com/trickstercache/trestle/pkg/server"
	"github.com/trickstercache/trestle/pkg/server/instance"
	"github.com/trickstercache/trestle/pkg/server/signaling"
)

const (
	applicationName    = "trestle"
	applicationVersion = "0.9.0"
)

// set by the linker at build time
var (
	applicationBuildTime   = "unknown"
	applicationGitCommitID = "unknown"
	applicationGoVersion   = goruntime.Version()
	applicationGoArch      = goruntime.GOARCH
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {

	appinfo.Set(applicationName, applicationVersion,
		applicationBuildTime, applicationGitCommitID)

	var (
		flagConfigPath  string
		flagLogLevel    string
		flagListenPort  int
		flagMetricsPort int
		flagVersion     bool
		flagValidate    bool
	)

	fs := flag.NewFlagSet(applicationName, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = PrintUsage
	fs.StringVar(&flagConfigPath, "config", "", "path to the configuration file")
	fs.StringVar(&flagLogLevel, "log-level", "", "log level override")
	fs.IntVar(&flagListenPort, "port", 0, "frontend listen port override")
	fs.IntVar(&flagMetricsPort, "metrics-port", 0, "metrics listen port override")
	fs.BoolVar(&flagVersion, "version", false, "print the version number and exit")
	fs.BoolVar(&flagValidate, "validate-config", false, "validate the configuration and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if flagVersion {
		PrintVersion()
		return 0
	}

	// loadConfig re-applies the command line overrides on every load so a
	// reload cannot silently revert them
	loadConfig := func() (*config.Config, error) {
		conf, err := config.Load(flagConfigPath)
		if err != nil {
			return nil, err
		}
		if flagLogLevel != "" {
			conf.Logging.LogLevel = flagLogLevel
		}
		if flagListenPort > 0 {
			conf.Frontend.ListenPort = flagListenPort
		}
		if flagMetricsPort > 0 {
			conf.Metrics.ListenPort = flagMetricsPort
		}
		return conf, nil
	}

	conf, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: could not load configuration: %v\n",
			applicationName, err)
		return 1
	}

	if flagValidate {
		fmt.Println("configuration validation succeeded")
		return 0
	}

	log := logging.New(&logging.Options{
		LogFile:    conf.Logging.LogFile,
		LogLevel:   conf.Logging.LogLevel,
		InstanceID: conf.Main.InstanceID,
	})
	logger.SetLogger(log)
	defer log.Close()

	logger.Info("application start up", logging.Pairs{
		"name":      applicationName,
		"version":   applicationVersion,
		"goVersion": applicationGoVersion,
		"goArch":    applicationGoArch,
		"commitID":  applicationGitCommitID,
		"buildTime": applicationBuildTime,
		"logLevel":  conf.Logging.LogLevel,
		"pid":       os.Getpid(),
	})

	srv, err := server.New(conf)
	if err != nil {
		logger.Error("could not create server", logging.Pairs{"detail": err.Error()})
		return 1
	}

	si := &instance.ServerInstance{
		Config:          conf,
		Server:          srv,
		ConfigValidator: loadConfig,
	}

	if err = registerServiceHandlers(srv, si); err != nil {
		logger.Error("could not register service handlers",
			logging.Pairs{"detail": err.Error()})
		return 1
	}

	if conf.Metrics != nil && conf.Metrics.ListenPort > 0 {
		go func() {
			if err := metrics.ListenAndServe(conf.Metrics.ListenAddress,
				conf.Metrics.ListenPort); err != nil {
				logger.Error("metrics listener exited",
					logging.Pairs{"detail": err.Error()})
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	if flagConfigPath != "" {
		go watchConfigFile(flagConfigPath, si)
	}

	sigCh := make(chan struct{})
	go func() {
		signaling.Wait(si)
		close(sigCh)
	}()

	select {
	case err = <-errCh:
		// the listener exited on its own, usually a bind failure
		if err != nil {
			logger.Error("frontend listener exited",
				logging.Pairs{"detail": err.Error()})
			return 1
		}
	case <-sigCh:
		if err = <-errCh; err != nil {
			logger.Error("frontend shutdown error",
				logging.Pairs{"detail": err.Error()})
			return 1
		}
	}

	logger.Info("application shut down", logging.Pairs{"name": applicationName})
	return 0
}

// registerServiceHandlers binds the ping and running-config endpoints at
// their configured paths. The config handler reads the instance so its
// output tracks reloads.
func registerServiceHandlers(srv *server.Server, si *instance.ServerInstance) error {
	conf := si.Config
	if conf.Main.PingHandlerPath != "" {
		if err := srv.Get(conf.Main.PingHandlerPath, handlers.Ping); err != nil {
			return err
		}
	}
	if conf.Main.ConfigHandlerPath != "" {
		h := func(req *request.Request, resp *response.Response) {
			handlers.ConfigHandleFunc(si.Config)(req, resp)
		}
		if err := srv.Get(conf.Main.ConfigHandlerPath, h); err != nil {
			return err
		}
	}
	return nil
}
