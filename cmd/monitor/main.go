package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ServerWatch/conn-monitor/internal/clickhouse"
	"github.com/ServerWatch/conn-monitor/internal/config"
	"github.com/ServerWatch/conn-monitor/internal/gamelog"
	"github.com/ServerWatch/conn-monitor/internal/history"
	"github.com/ServerWatch/conn-monitor/internal/logsource"
	"github.com/ServerWatch/conn-monitor/internal/mapping"
	"github.com/ServerWatch/conn-monitor/internal/monitor"
	"github.com/ServerWatch/conn-monitor/internal/observability"
	"github.com/ServerWatch/conn-monitor/internal/service"
	"github.com/ServerWatch/conn-monitor/internal/sink"
	"github.com/ServerWatch/conn-monitor/internal/statusapi"
	"github.com/ServerWatch/conn-monitor/internal/writer"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.LogLevel)

	log.Info().
		Str("version", version).
		Str("file", cfg.LogPath).
		Msg("Starting server connection monitor")

	shutdownTracer, err := observability.InitTracer(observability.TracerConfig{
		ServiceName:    "conn-monitor",
		ServiceVersion: version,
		Endpoint:       cfg.TracingEndpoint,
		Protocol:       cfg.TracingProtocol,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer shutdownTracer(context.Background())
	}

	// Pattern matchers, optionally extended from a YAML file
	var matchers []gamelog.Matcher
	if cfg.PatternsPath != "" {
		matchers, err = gamelog.LoadMatchers(cfg.PatternsPath)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.PatternsPath).Msg("Failed to load pattern file")
		}
	}
	extractor := gamelog.NewExtractor(matchers...)

	// Region display names for sinks and the status API
	regions := mapping.Empty()
	if cfg.RegionMapPath != "" {
		regions, err = mapping.LoadRegionMap(cfg.RegionMapPath)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load region map, using raw region codes")
			regions = mapping.Empty()
		}
	}

	// Local history journal
	var histStore history.Store
	if cfg.HistoryDBPath != "" {
		boltStore, err := history.NewBoltDBStore(cfg.HistoryDBPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open history store")
		}
		defer boltStore.Close()
		histStore = boltStore
	}

	// Optional ClickHouse mirror
	var chWriter writer.EventWriter
	if cfg.ClickHouseEnabled {
		chClient, err := clickhouse.NewClient(cfg.ClickHouseHost, cfg.ClickHousePort, cfg.ClickHouseDB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to ClickHouse")
		}
		defer chClient.Close()
		chWriter = writer.NewClickHouseWriter(chClient.Conn(), writer.DefaultBatchConfig())
	}

	mon := monitor.New(logsource.NewReader(), extractor, monitor.Config{
		ReadBudget: cfg.ReadBudget,
		Marker:     cfg.Marker,
	})

	svc, err := service.NewMonitorService(cfg, mon, []sink.Sink{sink.NewConsoleSink(regions)}, histStore, chWriter)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create monitor service")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := svc.Start(ctx); err != nil && ctx.Err() == nil {
			errChan <- err
		}
	}()

	var statusServer *statusapi.Server
	if cfg.StatusAddr != "" {
		statusServer = statusapi.NewServer(cfg.StatusAddr, svc, histStore, regions)
		go func() {
			if err := statusServer.Start(ctx); err != nil && ctx.Err() == nil {
				errChan <- err
			}
		}()
	}

	select {
	case <-sigChan:
		log.Info().Msg("Received shutdown signal")
	case err := <-errChan:
		log.Error().Err(err).Msg("Monitor service error")
	}

	log.Info().Msg("Shutting down gracefully...")
	cancel()

	if statusServer != nil {
		if err := statusServer.Stop(); err != nil {
			log.Error().Err(err).Msg("Error stopping status server")
		}
	}
	if err := svc.Stop(); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}

	log.Info().Msg("Monitor stopped")
}
