package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gogpu/upscale"
	"github.com/gogpu/upscale/backend"
	"github.com/gogpu/upscale/envconfig"
)

// app carries the state shared by the subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	backend string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:          "upscale",
		Short:        "waifu2x super-resolution on the GPU",
		Long:         `upscale denoises and magnifies RGB images with waifu2x networks, tile by tile on the GPU.`,
		Version:      upscale.Version,
		SilenceUsage: true,
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return a.setup(cmd)
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (YAML or TOML)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&a.backend, "backend", "", "backend provider (default: $UPSCALE_BACKEND or the best registered)")

	root.AddCommand(a.listGPUCmd(), a.runCmd())
	return root
}

// setup loads the config file, binds flags and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}
	a.v.SetEnvPrefix("UPSCALE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	level := envconfig.LogLevel()
	if a.v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	upscale.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	if a.cfgFile != "" {
		upscale.Logger().Debug("using config file", "path", a.v.ConfigFileUsed())
	}
	return nil
}

// manager returns the context manager for the selected backend.
func (a *app) manager() (*upscale.ContextManager, error) {
	name := a.v.GetString("backend")
	if name == "" {
		return upscale.DefaultContextManager(), nil
	}
	p := backend.Get(name)
	if p == nil {
		return nil, fmt.Errorf("unknown backend %q (available: %s)", name, strings.Join(backend.Available(), ", "))
	}
	return upscale.NewContextManager(p), nil
}
