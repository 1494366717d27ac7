package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stigoleg/keepawayk/internal/config"
)

type rootOptions struct {
	cfgFile  string
	headless bool
	v        *viper.Viper
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	root := &cobra.Command{
		Use:   "keepawayk",
		Short: "Keep the session active with small randomized input actions",
		Long: `keepawayk moves the pointer, clicks or taps a key at a fixed interval so the
desktop never considers the session idle. Without a subcommand it opens the
interactive control panel; "run --headless" drives the same engine without it.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Init(opts.v, opts.cfgFile); err != nil {
				return err
			}
			return config.BindFlags(opts.v, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd.Context(), opts)
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.cfgFile, "config", "c", "", "config file (default ./keepawayk.yaml or $XDG_CONFIG_HOME/keepawayk/keepawayk.yaml)")
	config.AddFlags(pf)

	root.AddCommand(newRunCmd(opts), newDoctorCmd(), newVersionCmd())
	return root
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler, with the control panel unless --headless is set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "Run without the control panel, logging to stderr until interrupted")
	return cmd
}
