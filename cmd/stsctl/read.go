package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newReadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>...",
		Short: "Request datums by id",
		Long: `Request the current datum for each id, in order, inside a single
read-mode handshake.

Example:
  stsctl read 1090 1091 -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			client, err := opts.client(cmd)
			if err != nil {
				return err
			}
			data, err := client.Receive(cmd.Context(), ids)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, data)
		},
	}
}

func parseIDs(args []string) ([]int32, error) {
	ids := make([]int32, 0, len(args))
	for _, arg := range args {
		n, err := strconv.ParseInt(arg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", arg, err)
		}
		ids = append(ids, int32(n))
	}
	return ids, nil
}
