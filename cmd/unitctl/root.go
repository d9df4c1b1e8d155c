package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bryanwahyu/unit-monitor/internal/infra/apiclient"
)

// app is what every subcommand needs, built once in PersistentPreRunE.
type app struct {
	client *apiclient.Client
	out    io.Writer
	now    func() time.Time
}

type appKey struct{}

func getApp(cmd *cobra.Command) *app {
	return cmd.Context().Value(appKey{}).(*app)
}

// newRootCommand builds the command tree. opts are passed to the API client.
func newRootCommand(opts ...apiclient.Option) *cobra.Command {
	v := viper.New()
	var configFile string

	root := &cobra.Command{
		Use:   "unitctl",
		Short: "Console for units and their failures",
		Long: `unitctl talks to the unit-monitor API: manage units and failures and
look at the monthly failure dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(v, configFile); err != nil {
				return err
			}
			if v.GetBool("no-color") {
				color.NoColor = true
			}
			clientOpts := append([]apiclient.Option{apiclient.WithTimeout(v.GetDuration("timeout"))}, opts...)
			a := &app{
				client: apiclient.New(v.GetString("server"), clientOpts...),
				out:    cmd.OutOrStdout(),
				now:    time.Now,
			}
			cmd.SetContext(withApp(cmd, a))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default $HOME/.unitctl.yaml)")
	flags.String("server", apiclient.DefaultBaseURL, "base URL of the API")
	flags.Duration("timeout", apiclient.DefaultTimeout, "request timeout")
	flags.Bool("no-color", false, "disable colored output")
	for _, name := range []string{"server", "timeout", "no-color"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		(&DashboardCommand{}).GetCobraCommand(),
		(&UnitsCommand{}).GetCobraCommand(),
		(&FailuresCommand{}).GetCobraCommand(),
		(&MenuCommand{}).GetCobraCommand(),
	)
	return root
}

func loadConfig(v *viper.Viper, path string) error {
	v.SetEnvPrefix("UNITCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.SetConfigFile(filepath.Join(home, ".unitctl.yaml"))
		if _, err := os.Stat(v.ConfigFileUsed()); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
	}
	return nil
}

func withApp(cmd *cobra.Command, a *app) context.Context {
	return context.WithValue(cmd.Context(), appKey{}, a)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
