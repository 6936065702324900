package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Send the trend digest once to every profile with notifications enabled",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.digest.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Digest: %d profiles, %d sent, %d skipped, %d failed\n",
			res.Profiles, res.Sent, res.Skipped, res.Failed)
		return nil
	},
}
