package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/August26/nullvadcheck-go/internal/analytics"
	"github.com/August26/nullvadcheck-go/internal/checker"
	"github.com/August26/nullvadcheck-go/internal/config"
	"github.com/August26/nullvadcheck-go/internal/logging"
	"github.com/August26/nullvadcheck-go/internal/model"
	"github.com/August26/nullvadcheck-go/internal/output"
	"github.com/August26/nullvadcheck-go/internal/parser"
)

func main() {
	settingsPath := flag.String("settings", "nullvadcheck.yaml", "path to YAML settings file (optional)")

	var flagCfg model.Config
	flag.StringVar(&flagCfg.ClientPath, "client", "", "path to the external VPN client binary")
	flag.StringVar(&flagCfg.InputFile, "input", "", "path to newline-delimited account list")
	flag.StringVar(&flagCfg.ValidOutputFile, "output", "", "append-only file for valid accounts")
	flag.StringVar(&flagCfg.DeviceLimitFile, "device-limit-output", "", "append-only file for device-limited accounts")
	flag.IntVar(&flagCfg.DelaySeconds, "delay", -1, "seconds to wait before each account check")
	flag.IntVar(&flagCfg.CooldownSeconds, "cooldown", -1, "seconds to wait after each completed check")
	flag.StringVar(&flagCfg.ProxyString, "proxy", "", "proxy as domain:port[:user[:pass]]")
	flag.StringVar(&flagCfg.ProxyKind, "proxy-kind", "", "proxy kind: http | https | socks4 | socks5")
	noPreflight := flag.Bool("no-preflight", false, "skip the proxy reachability probe")
	flag.BoolVar(&flagCfg.Verbose, "verbose", false, "enable debug logs")

	flag.Parse()

	settings, err := config.Load(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg := mergeFlags(settings.Config(), flagCfg, *noPreflight)

	log := logging.NewLogger(cfg.Verbose)

	if _, err := exec.LookPath(cfg.ClientPath); err != nil {
		log.Error("external client not found", "client", cfg.ClientPath, "err", err)
		fmt.Fprintf(os.Stderr, "Error: external client %q is not installed\n", cfg.ClientPath)
		os.Exit(1)
	}

	proxyCfg, err := parser.ParseProxy(cfg.ProxyString, cfg.ProxyKind)
	if err != nil {
		log.Error("invalid proxy configuration", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !cfg.UseProxy {
		proxyCfg = nil
	}

	var env map[string]string
	if proxyCfg != nil {
		env, err = proxyCfg.EnvOverrides()
		if err != nil {
			log.Error("failed to build proxy environment", "err", err)
			os.Exit(1)
		}
		u, _ := proxyCfg.URL()
		log.Info("proxy configured", "kind", string(proxyCfg.Kind), "url", u)
	}

	accounts, err := parser.LoadAccounts(cfg.InputFile)
	if err != nil {
		log.Error("failed to load accounts", "err", err)
		os.Exit(1)
	}
	log.Info("accounts loaded", "count", len(accounts), "path", cfg.InputFile)

	if cfg.Preflight && proxyCfg != nil {
		if err := checker.DefaultPreflight().Check(context.Background(), proxyCfg); err != nil {
			log.Error("proxy preflight failed", "err", err)
			fmt.Fprintf(os.Stderr, "Error: proxy is not usable: %v\n", err)
			os.Exit(1)
		}
		log.Debug("proxy preflight passed")
	}

	sink, err := output.NewSink(cfg.ValidOutputFile, cfg.DeviceLimitFile)
	if err != nil {
		log.Error("failed to open result files", "err", err)
		os.Exit(1)
	}
	defer sink.Close()

	validator := checker.NewValidator(checker.NewExecutor(), sink, cfg.ClientPath, env, log)
	pacer := checker.NewPacer(cfg.Delay(), cfg.Cooldown())
	worker := checker.NewWorker(validator, pacer, log)

	if err := worker.Start(accounts); err != nil {
		log.Error("failed to start batch", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	stopOnSignal(worker, log)

	outcomes := make([]model.Outcome, 0, len(accounts))
	for o := range worker.Events() {
		log.Info("account checked",
			"account", o.Account,
			"status", o.Category.String(),
			"message", o.Message,
		)
		outcomes = append(outcomes, o)
	}
	summary := <-worker.Done()

	stats := analytics.Compute(outcomes, summary.Duration)
	output.PrintResultsTable(os.Stdout, outcomes)
	output.PrintSummary(os.Stdout, stats, summary)
}

// mergeFlags overlays explicitly set flags onto the file-derived config.
func mergeFlags(base, flags model.Config, noPreflight bool) model.Config {
	if flags.ClientPath != "" {
		base.ClientPath = flags.ClientPath
	}
	if flags.InputFile != "" {
		base.InputFile = flags.InputFile
	}
	if flags.ValidOutputFile != "" {
		base.ValidOutputFile = flags.ValidOutputFile
	}
	if flags.DeviceLimitFile != "" {
		base.DeviceLimitFile = flags.DeviceLimitFile
	}
	if flags.DelaySeconds >= 0 {
		base.DelaySeconds = flags.DelaySeconds
	}
	if flags.CooldownSeconds >= 0 {
		base.CooldownSeconds = flags.CooldownSeconds
	}
	if flags.ProxyString != "" {
		base.ProxyString = flags.ProxyString
		base.UseProxy = true
	}
	if flags.ProxyKind != "" {
		base.ProxyKind = flags.ProxyKind
	}
	if noPreflight {
		base.Preflight = false
	}
	base.Verbose = flags.Verbose
	return base
}

// stopOnSignal turns SIGINT/SIGTERM into a cooperative worker stop so
// the in-flight account still completes and the client is logged out.
func stopOnSignal(worker *checker.Worker, log *slog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info("received signal, stopping after current account", "signal", sig.String())
		worker.Stop()
	}()
}
