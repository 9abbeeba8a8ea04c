//go:build !tinygo

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"halcode-go/errcode"
	"halcode-go/hal"
	"halcode-go/targets"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the targets the HAL can be built for",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTAGS\tGPIO\tBAUD\tI2C HZ\tSIMULATED")
		for _, t := range targets.All() {
			sim := ""
			if t.Name == hal.Target {
				sim = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s[0..%d]\t%d..%d\t%d..%d\t%s\n",
				t.Name, strings.Join(t.Tags, ","), t.GPIO.Port, t.GPIO.Pins-1,
				t.Limits.MinBaud, t.Limits.MaxBaud, t.Limits.MinI2CHz, t.Limits.MaxI2CHz, sim)
		}
		return w.Flush()
	},
}

// checkTarget fails unless name is the target compiled into this binary.
func checkTarget(name string) error {
	t, err := targets.All().Find(name)
	if err != nil {
		return err
	}
	if t.Name != hal.Target {
		return errcode.New(errcode.Unsupported, "halsim.target",
			fmt.Sprintf("built for %s; rebuild with -tags %s", hal.Target, t.Name))
	}
	return nil
}
