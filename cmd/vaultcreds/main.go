// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains the vaultcreds command line tool.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/absmach/vaultcreds"
	"github.com/absmach/vaultcreds/api"
	"github.com/absmach/vaultcreds/azure"
	"github.com/absmach/vaultcreds/certificate"
	"github.com/absmach/vaultcreds/cli"
	"github.com/absmach/vaultcreds/document"
	jaegerClient "github.com/absmach/vaultcreds/internal/jaeger"
	pgClient "github.com/absmach/vaultcreds/internal/postgres"
	"github.com/absmach/vaultcreds/internal/prometheus"
	"github.com/absmach/vaultcreds/internal/uuid"
	"github.com/absmach/vaultcreds/openbao"
	"github.com/absmach/vaultcreds/postgres"
	"github.com/absmach/vaultcreds/tracing"
	"github.com/absmach/vaultcreds/writer"
	"github.com/awnumar/memguard"
	"github.com/caarlos0/env/v10"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	svcName           = "vaultcreds"
	envPrefixAzure    = "AM_VAULTCREDS_AZURE_"
	envPrefixOpenBao  = "AM_VAULTCREDS_OPENBAO_"
	envPrefixDB       = "AM_VAULTCREDS_DB_"
	channelKeyAzure   = "azure"
	channelKeyOpenBao = "openbao"
)

type config struct {
	LogLevel          string  `env:"AM_VAULTCREDS_LOG_LEVEL"          envDefault:"info"`
	JaegerURL         url.URL `env:"AM_JAEGER_URL"                    envDefault:""`
	InstanceID        string  `env:"AM_VAULTCREDS_INSTANCE_ID"        envDefault:""`
	TraceRatio        float64 `env:"AM_JAEGER_TRACE_RATIO"            envDefault:"1.0"`
	ProfileFile       string  `env:"AM_VAULTCREDS_PROFILE_FILE"       envDefault:""`
	OutputDir         string  `env:"AM_VAULTCREDS_OUTPUT_DIR"         envDefault:""`
	ChannelKeySource  string  `env:"AM_VAULTCREDS_CHANNEL_KEY_SOURCE" envDefault:"azure"`
	JournalEnabled    bool    `env:"AM_VAULTCREDS_JOURNAL_ENABLED"    envDefault:"false"`
	CertificateKeyLen int     `env:"AM_VAULTCREDS_KEY_BITS"           envDefault:"2048"`
}

func main() {
	memguard.CatchInterrupt()

	var shutdown []func()

	rootCmd := &cobra.Command{
		Use:          "vaultcreds",
		Short:        "Vault credentials issuance",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := cli.ParseConfig(); err != nil {
				return fmt.Errorf("failed to parse config: %w", err)
			}
			closers, err := setup(cmd.Context())
			shutdown = append(shutdown, closers...)
			return err
		},
	}

	rootCmd.AddCommand(cli.NewCredentialsCmd())

	rootCmd.PersistentFlags().StringVarP(
		&cli.ConfigPath,
		"config",
		"c",
		cli.ConfigPath,
		"Config path",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&cli.RawOutput,
		"raw",
		"r",
		cli.RawOutput,
		"Enables raw output mode for easier parsing of output",
	)

	rootCmd.PersistentFlags().StringVarP(
		&cli.OutputDir,
		"output-dir",
		"d",
		"",
		"Credential file output directory",
	)

	rootCmd.PersistentFlags().StringVar(&cli.Location, "location", "", "Vault location")
	rootCmd.PersistentFlags().StringVar(&cli.SubscriptionID, "subscription", "", "Vault subscription ID")
	rootCmd.PersistentFlags().StringVar(&cli.ResourceID, "resource-id", "", "Vault resource ID")
	rootCmd.PersistentFlags().StringVar(&cli.SiteID, "site-id", "", "Recovery site ID")
	rootCmd.PersistentFlags().StringVar(&cli.SiteName, "site-name", "", "Recovery site friendly name")
	rootCmd.PersistentFlags().IntVar(&cli.Concurrency, "concurrency", 0, "Batch issuance concurrency")

	rootCmd.PersistentFlags().Uint64VarP(
		&cli.Limit,
		"limit",
		"l",
		0,
		"Limit query parameter",
	)

	rootCmd.PersistentFlags().Uint64VarP(
		&cli.Offset,
		"offset",
		"o",
		0,
		"Offset query parameter",
	)

	err := rootCmd.ExecuteContext(context.Background())
	for _, fn := range shutdown {
		fn()
	}
	memguard.Purge()
	if err != nil {
		log.Fatal(err)
	}
}

func setup(ctx context.Context) ([]func(), error) {
	var closers []func()

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		return closers, fmt.Errorf("failed to load %s configuration : %w", svcName, err)
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return closers, err
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID, err = uuid.New().ID()
		if err != nil {
			return closers, fmt.Errorf("failed to generate instance ID: %w", err)
		}
	}

	profile, err := vaultcreds.LoadProfile(cfg.ProfileFile)
	if err != nil {
		return closers, fmt.Errorf("failed to load document profile: %w", err)
	}

	var tracer trace.Tracer = noop.NewTracerProvider().Tracer(svcName)
	if cfg.JaegerURL != (url.URL{}) {
		tp, err := jaegerClient.NewProvider(ctx, svcName, cfg.JaegerURL, cfg.InstanceID, cfg.TraceRatio)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to init Jaeger: %s", err))
		} else {
			closers = append(closers, func() {
				if err := tp.Shutdown(context.Background()); err != nil {
					logger.Error(fmt.Sprintf("Error shutting down tracer provider: %v", err))
				}
			})
			tracer = tp.Tracer(svcName)
		}
	}

	azureCfg := azure.Config{}
	if err := env.ParseWithOptions(&azureCfg, env.Options{Prefix: envPrefixAzure}); err != nil {
		return closers, fmt.Errorf("failed to load %s Azure configuration : %w", svcName, err)
	}
	cred, err := azure.NewCredential(azureCfg)
	if err != nil {
		return closers, fmt.Errorf("failed to create Azure credential: %w", err)
	}
	client, err := azure.NewClient(azureCfg, cred, logger, nil)
	if err != nil {
		return closers, fmt.Errorf("failed to create Azure client: %w", err)
	}

	channelKeys, err := newChannelKeyProvider(cfg.ChannelKeySource, client, logger)
	if err != nil {
		return closers, err
	}

	opts := []vaultcreds.Option{
		vaultcreds.WithLogger(logger),
	}
	var journal vaultcreds.Journal
	if cfg.JournalEnabled {
		db, err := pgClient.Setup(envPrefixDB, *postgres.Migration())
		if err != nil {
			return closers, fmt.Errorf("failed to set up journal database: %w", err)
		}
		closers = append(closers, func() { db.Close() })
		journal = postgres.NewJournal(pgClient.NewDatabase(db, tracer))
		opts = append(opts, vaultcreds.WithJournal(journal, uuid.New()))
	}

	svc := vaultcreds.NewService(
		azure.NewAuthModeResolver(client),
		certificate.NewFactory(certificate.WithKeyBits(cfg.CertificateKeyLen)),
		azure.NewUploader(client),
		channelKeys,
		document.NewBuilder(profile),
		document.NewSerializer(profile),
		writer.New(cfg.OutputDir, profile.FileExtension),
		opts...,
	)
	cli.SetService(newService(svc, tracer, logger))
	cli.SetJournal(journal)

	return closers, nil
}

func newChannelKeyProvider(source string, client *azure.Client, logger *slog.Logger) (vaultcreds.ChannelKeyProvider, error) {
	switch source {
	case channelKeyAzure:
		return azure.NewChannelKeyProvider(client), nil
	case channelKeyOpenBao:
		baoCfg := openbao.Config{}
		if err := env.ParseWithOptions(&baoCfg, env.Options{Prefix: envPrefixOpenBao}); err != nil {
			return nil, fmt.Errorf("failed to load %s OpenBao configuration : %w", svcName, err)
		}
		if baoCfg.AppRole == "" || baoCfg.AppSecret == "" {
			return nil, fmt.Errorf("OpenBao AppRole credentials not specified")
		}
		return openbao.NewChannelKeyProvider(baoCfg, logger)
	default:
		return nil, fmt.Errorf("unknown channel key source %q", source)
	}
}

func newService(svc vaultcreds.Service, tracer trace.Tracer, logger *slog.Logger) vaultcreds.Service {
	svc = api.LoggingMiddleware(svc, logger)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = api.MetricsMiddleware(svc, counter, latency)
	svc = tracing.New(svc, tracer)

	return svc
}

func initLogger(levelText string) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelText)); err != nil {
		return &slog.Logger{}, fmt.Errorf(`{"level":"error","message":"%s: %s","ts":"%s"}`, err, levelText, time.RFC3339Nano)
	}

	logHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(logHandler), nil
}
