package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stigoleg/keepawayk/internal/hotkey"
	"github.com/stigoleg/keepawayk/internal/input"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Report which input backends and keyboards this host offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprint(out, input.DetectCapabilities().Report())

			kbds := hotkey.FindKeyboards()
			if len(kbds) == 0 {
				fmt.Fprintln(out, "\nKeyboards:           none found; the global hotkey will be unavailable")
				return nil
			}
			fmt.Fprintf(out, "\nKeyboards:           %s\n", strings.Join(kbds, ", "))
			return nil
		},
	}
}
