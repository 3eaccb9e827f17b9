package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/manifold/remote-uci-applet/pkg/config"
	"github.com/manifold/remote-uci-applet/pkg/daemon"
	zaplog "github.com/manifold/remote-uci-applet/pkg/logging/zap"
	"github.com/manifold/remote-uci-applet/pkg/remote"
	"github.com/manifold/remote-uci-applet/pkg/tray"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rootCmd = &cobra.Command{
		Use:          "remote-uci-applet",
		Short:        "External Lichess Engine tray applet",
		Long:         "Serves a local UCI engine to lichess and shows a tray icon to connect or shut it down.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runApplet,
	}

	configPath string
	logLevel   string
	flagOpts   remote.Options
	variants   string
)

func init() {
	defaults := remote.DefaultOptions()
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path to the config file (default is ~/.config/remote-uci-applet/config.yaml)")
	flags.StringVar(&logLevel, "log-level", "", "log level (default from $"+zaplog.LevelEnv+", or info)")
	flags.StringVarP(&flagOpts.Engine, "engine", "e", "", "path to the UCI engine binary")
	flags.StringVarP(&flagOpts.Bind, "bind", "b", defaults.Bind, "address to listen on")
	flags.StringVar(&flagOpts.PublishAddr, "publish-addr", "", "address advertised to lichess (default is the bound address)")
	flags.StringVar(&flagOpts.Secret, "secret", "", "shared secret (default is random)")
	flags.StringVar(&flagOpts.Name, "name", defaults.Name, "engine name shown on lichess")
	flags.IntVar(&flagOpts.MaxThreads, "max-threads", defaults.MaxThreads, "maximum engine threads")
	flags.IntVar(&flagOpts.MaxHash, "max-hash", defaults.MaxHash, "maximum engine hash in MiB")
	flags.StringVar(&variants, "variants", "", "comma separated list of supported variants")
	flags.BoolVar(&flagOpts.OfficialStockfish, "official-stockfish", false, "engine is an official stockfish build")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runApplet(cmd *cobra.Command, args []string) error {
	lvl, err := zaplog.Level(logLevel)
	if err != nil {
		return err
	}
	log, err := zaplog.NewLogger(lvl)
	if err != nil {
		return err
	}
	defer log.Sync()

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	host := tray.NewHost(log)
	d := &daemon.Daemon{
		Options: opts,
		Tray:    host,
		Logger:  log,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- d.Run(context.Background())
		host.Quit()
	}()

	// the tray must run on the main goroutine
	host.Loop()

	if err := <-errs; err != nil {
		log.Errorw("fatal", zap.Error(err))
		return err
	}
	log.Info("shut down")
	return nil
}

// loadOptions layers explicitly set flags over the config file.
func loadOptions(cmd *cobra.Command) (remote.Options, error) {
	path, required := configPath, true
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return remote.Options{}, err
		}
		path, required = p, false
	}
	opts, err := config.Load(afero.NewOsFs(), path, required)
	if err != nil {
		return opts, err
	}

	flags := cmd.Flags()
	if flags.Changed("engine") {
		opts.Engine = flagOpts.Engine
	}
	if flags.Changed("bind") {
		opts.Bind = flagOpts.Bind
	}
	if flags.Changed("publish-addr") {
		opts.PublishAddr = flagOpts.PublishAddr
	}
	if flags.Changed("secret") {
		opts.Secret = flagOpts.Secret
	}
	if flags.Changed("name") {
		opts.Name = flagOpts.Name
	}
	if flags.Changed("max-threads") {
		opts.MaxThreads = flagOpts.MaxThreads
	}
	if flags.Changed("max-hash") {
		opts.MaxHash = flagOpts.MaxHash
	}
	if flags.Changed("variants") {
		opts.Variants = splitList(variants)
	}
	if flags.Changed("official-stockfish") {
		opts.OfficialStockfish = flagOpts.OfficialStockfish
	}
	if opts.Engine == "" {
		return opts, fmt.Errorf("no engine configured: pass --engine or set engine in %s", path)
	}
	return opts, nil
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
