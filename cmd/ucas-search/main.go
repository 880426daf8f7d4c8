package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"ucas-search/internal/config"
	"ucas-search/internal/providers/ucas"
	"ucas-search/internal/session"
	"ucas-search/internal/sftpclient"
)

// Version is set at build time via -ldflags
var Version = "dev"

type options struct {
	term       string
	configPath string
	outDir     string
	pageSize   int
	sftp       bool
	debug      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:          "ucas-search",
		Short:        "Search the UCAS catalog and rank courses by entry requirements.",
		Version:      Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.term, "term", "", "run a single search for this term and exit")
	f.StringVar(&o.configPath, "config", "", "optional YAML config file")
	f.StringVar(&o.outDir, "out-dir", "", "directory for result files (default from config)")
	f.IntVar(&o.pageSize, "page-size", 0, "results per page (default from config)")
	f.BoolVar(&o.sftp, "sftp", false, "upload result files via SFTP")
	f.BoolVar(&o.debug, "debug", false, "enable debug logging")

	return cmd
}

func run(cmd *cobra.Command, o options) error {
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return err
	}
	if o.outDir != "" {
		cfg.OutDir = o.outDir
	}
	if o.pageSize > 0 {
		cfg.PageSize = o.pageSize
	}
	if o.debug {
		cfg.Debug = true
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	client := ucas.New(cfg.SearchURL, cfg.AcademicYear)
	client.UserAgent = cfg.UserAgent
	client.PageDelay = cfg.PageDelay
	client.Log = logger
	logger.Debug("config loaded", "url", cfg.SearchURL, "year", cfg.AcademicYear, "page_size", cfg.PageSize, "out_dir", cfg.OutDir)

	sess := &session.Session{
		Searcher: ucas.Provider{
			C:            client,
			PageSize:     cfg.PageSize,
			AcademicYear: cfg.AcademicYear,
		},
		OutDir: cfg.OutDir,
		In:     cmd.InOrStdin(),
		Out:    cmd.OutOrStdout(),
		Log:    logger,
		SearchContext: func(parent context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(parent, os.Interrupt)
		},
	}

	if o.sftp {
		upCfg := sftpclient.Config{
			Host:                  cfg.SFTPHost,
			Port:                  cfg.SFTPPort,
			User:                  cfg.SFTPUser,
			Pass:                  cfg.SFTPPass,
			RemoteDir:             cfg.SFTPDir,
			KnownHosts:            cfg.SFTPKnownHosts,
			InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
		}
		sess.AfterWrite = func(ctx context.Context, paths []string) error {
			upCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()

			if err := sftpclient.UploadFiles(upCtx, upCfg, paths); err != nil {
				return err
			}
			logger.Info("uploaded results", "host", upCfg.Host, "dir", upCfg.RemoteDir, "files", len(paths))
			return nil
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ucas-search %s\n\n", Version)

	if o.term != "" {
		_, err := sess.RunSearch(cmd.Context(), o.term)
		return err
	}
	return sess.Run(cmd.Context())
}
