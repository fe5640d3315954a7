package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	configx "github.com/tanpawarit/goodfoods-reservation-agent/pkg/config"
	logx "github.com/tanpawarit/goodfoods-reservation-agent/pkg/logger"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

type rootOptions struct {
	envFile         string
	restaurantsFile string
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "goodfoods",
		Short:         "GoodFoods restaurant reservation assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configx.SetEnvFile(opts.envFile)
			logCfg, err := configx.New[logx.Config]("LOG")
			if err != nil {
				return err
			}
			logx.Init(*logCfg)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env", "", "path to .env file")
	root.PersistentFlags().StringVar(&opts.restaurantsFile, "restaurants", "", "YAML restaurant catalog (overrides RESTAURANTS_FILE)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newChatCmd(opts))
	root.AddCommand(newToolsCmd(opts))
	root.AddCommand(newResourcesCmd(opts))
	root.AddCommand(newRestaurantsCmd(opts))

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "goodfoods %s (commit=%s, built=%s)\n", Version, CommitSHA, BuildDate)
		},
	}
}
