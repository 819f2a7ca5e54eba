package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/iedon/eyebrow-go/config"
	"github.com/iedon/eyebrow-go/server"
	"github.com/iedon/eyebrow-go/site"
	"github.com/iedon/eyebrow-go/templatex"
)

func main() {
	cfgPath := flag.String("config", "", "path to configuration file (defaults are used when empty)")
	buildFlag := flag.Bool("build", false, "render every document into the output directory and exit")
	listen := flag.String("listen", "", "HTTP listen address, overrides the config file")
	tlsListen := flag.String("tls-listen", "", "HTTPS listen address, overrides the config file")
	cert := flag.String("cert", "", "TLS certificate file; enables HTTPS together with -key")
	key := flag.String("key", "", "TLS private key file; enables HTTPS together with -cert")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println(SERVER_SIGNATURE)
		return
	}

	cfg, err := loadConfig(*cfgPath, *listen, *tlsListen, *cert, *key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("starting", "version", SERVER_SIGNATURE, "build", *buildFlag)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	partials, err := templatex.LoadPartials(ctx, cfg.PartialsDir, cfg.TemplateExt)
	if err != nil {
		logger.Error("partials", "error", err)
		os.Exit(1)
	}
	logger.Info("partials loaded", "dir", cfg.PartialsDir, "count", partials.Len())

	templates, err := templatex.New(cfg.TemplateDir, cfg.TemplateExt, partials)
	if err != nil {
		logger.Error("templates", "error", err)
		os.Exit(1)
	}

	svc := site.NewService(cfg, templates, logger)

	if *buildFlag {
		count, err := svc.BuildStatic(ctx)
		if err != nil {
			logger.Error("build", "error", err)
			os.Exit(1)
		}
		logger.Info("static build completed", "output", cfg.OutputDir, "pages", count)
		return
	}

	srv := server.New(cfg, svc, logger, SERVER_SIGNATURE)
	if err := srv.Start(ctx); err != nil {
		logger.Error("server", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path, listen, tlsListen, cert, key string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if listen != "" {
		cfg.Listen = listen
	}
	if tlsListen != "" {
		cfg.TLSListen = tlsListen
	}
	if cert != "" || key != "" {
		cfg.TLSCert, cfg.TLSKey = cert, key
		cfg.EnableTLS = true
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
