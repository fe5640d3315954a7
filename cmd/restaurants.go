package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tanpawarit/goodfoods-reservation-agent/agent/booking"
)

func newRestaurantsCmd(opts *rootOptions) *cobra.Command {
	var outPath string

	c := &cobra.Command{
		Use:   "restaurants",
		Short: "Dump the restaurant catalog as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, err := loadAppConfig(opts)
			if err != nil {
				return err
			}
			restaurants, err := catalog(appCfg)
			if err != nil {
				return err
			}
			data, err := booking.MarshalRestaurants(restaurants)
			if err != nil {
				return err
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write catalog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d restaurants to %s\n", len(restaurants), outPath)
			return nil
		},
	}
	c.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")
	return c
}
