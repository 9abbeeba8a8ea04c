//go:build !tinygo

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"halcode-go/hal"
	"halcode-go/internal/platform"
	"halcode-go/targets"
)

var (
	runOpts = struct {
		config string
	}{}

	runCmd = &cobra.Command{
		Use:   "run [script|-]",
		Short: "Run a scenario or script against the simulated chip",
		Long: `Run loads an optional YAML scenario (devices, injected input, SPI peer,
and a script), then executes the scenario script followed by the script file
given as argument, or standard input for "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := targets.All().Find(rootOpts.target)
			if err != nil {
				return err
			}
			sc := &Scenario{}
			if runOpts.config != "" {
				if sc, err = loadScenario(runOpts.config); err != nil {
					return err
				}
			}
			var script io.Reader = strings.NewReader(strings.Join(sc.Script, "\n"))
			if len(args) == 1 {
				src, err := openScript(cmd, args[0])
				if err != nil {
					return err
				}
				defer src.Close()
				script = io.MultiReader(script, strings.NewReader("\n"), src)
			}
			return runScenario(cmd.OutOrStdout(), t, sc, script)
		},
	}
)

func init() {
	runCmd.Flags().StringVarP(&runOpts.config, "config", "c", "", "YAML scenario file")
}

func openScript(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(path)
}

// runScenario configures the backend, wires sc into the simulator and runs
// script. Defaults claimed by the script are released afterwards.
func runScenario(out io.Writer, t targets.Target, sc *Scenario, script io.Reader) error {
	if err := hal.Configure(sc.config(t)); err != nil {
		fmt.Fprintln(out, "note: backend already open, scenario clock and poll budget not applied")
	}
	chip := platform.Sim()
	if err := sc.apply(t, chip); err != nil {
		return err
	}
	defer hal.ReleaseDefaults()
	return newSession(out, chip).Run(script)
}
