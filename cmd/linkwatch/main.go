/*
 * Copyright 2025 Carver Automation Corporation.
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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/carverauto/linkwatch/pkg/config"
	"github.com/carverauto/linkwatch/pkg/lifecycle"
	"github.com/carverauto/linkwatch/pkg/linkwatch"
	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
	"github.com/carverauto/linkwatch/pkg/poller"
	"github.com/carverauto/linkwatch/pkg/version"
)

var (
	errFailedToLoadConfig = errors.New("failed to load config")
)

const onceTimeout = 2 * time.Minute

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/linkwatch/linkwatch.json", "Path to linkwatch config file")
	once := flag.Bool("once", false, "Poll every device once, print the snapshots as JSON and exit")
	showVersion := flag.Bool("version", false, "Print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("linkwatch", version.GetFullVersion())
		return nil
	}

	ctx := context.Background()

	cfgLoader := config.NewConfig(nil)

	var cfg linkwatch.Config

	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = &logger.Config{
			Level:  "info",
			Output: "stderr",
		}
	}

	svcLogger, err := lifecycle.CreateComponentLogger(ctx, cfg.ServiceName, logConfig)
	if err != nil {
		return err
	}

	defer func() {
		if err := lifecycle.ShutdownLogger(); err != nil {
			log.Printf("Failed to shut down telemetry: %v", err)
		}
	}()

	svcLogger.Info().Str("version", version.GetFullVersion()).Msg("Starting linkwatch")

	if redacted, err := config.Redacted(&cfg); err == nil {
		svcLogger.Debug().RawJSON("config", redacted).Msg("Loaded configuration")
	}

	if err := linkwatch.InitTelemetry(ctx, &cfg, svcLogger); err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	svc, err := linkwatch.New(ctx, &cfg, svcLogger)
	if err != nil {
		return err
	}

	if *once {
		return pollOnce(ctx, svc)
	}

	return lifecycle.RunServer(ctx, &lifecycle.ServerOptions{
		ListenAddr:        cfg.GRPCListenAddr,
		ServiceName:       cfg.ServiceName,
		Service:           svc,
		EnableHealthCheck: cfg.GRPCListenAddr != "",
		Security:          cfg.Security,
		Logger:            svcLogger,
	})
}

type onceReport struct {
	Cycle     poller.CycleSummary               `json:"cycle"`
	Snapshots []*models.DeviceSnapshot          `json:"snapshots"`
	States    map[string]models.DeviceLinkState `json:"states"`
}

func pollOnce(ctx context.Context, svc *linkwatch.Service) error {
	ctx, cancel := context.WithTimeout(ctx, onceTimeout)
	defer cancel()

	summary, err := svc.PollOnce(ctx)
	if err != nil {
		return err
	}

	defer func() { _ = svc.Stop(context.Background()) }()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(onceReport{
		Cycle:     summary,
		Snapshots: svc.Snapshots(),
		States:    svc.States(),
	})
}
