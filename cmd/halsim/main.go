//go:build !tinygo

// Command halsim runs the HAL against the simulated chip of this build.
//
//	halsim targets
//	halsim run --config scenario.yaml
//	halsim run script.hal
//	echo "gpio mode 5 output" | halsim run -
//
// Build with -tags cortexm3 to simulate the Cortex-M3 backend.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"halcode-go/hal"
	"halcode-go/x/logx"
)

var (
	rootOpts = struct {
		target  string
		level   levelFlag
		logJSON bool
	}{level: levelFlag(slog.LevelWarn)}

	rootCmd = &cobra.Command{
		Use:           "halsim",
		Short:         "Drive the peripheral HAL against a simulated chip",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logx.SetLevel(slog.Level(rootOpts.level))
			logx.SetOutput(cmd.ErrOrStderr(), rootOpts.logJSON)
			return checkTarget(rootOpts.target)
		},
	}
)

// levelFlag is a pflag.Value accepting logx level names.
type levelFlag slog.Level

var _ pflag.Value = (*levelFlag)(nil)

func (l *levelFlag) String() string { return slog.Level(*l).String() }
func (l *levelFlag) Type() string   { return "level" }

func (l *levelFlag) Set(s string) error {
	v, err := logx.ParseLevel(s)
	if err != nil {
		return err
	}
	*l = levelFlag(v)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootOpts.target, "target", "t", hal.Target, "target the binary must be built for")
	rootCmd.PersistentFlags().Var(&rootOpts.level, "log-level", "debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&rootOpts.logJSON, "log-json", false, "log as JSON lines")
	rootCmd.AddCommand(targetsCmd, runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logx.For(logx.CLI).Error("halsim failed", logx.Err(err))
		os.Exit(1)
	}
}
