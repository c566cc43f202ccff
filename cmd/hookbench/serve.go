package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/hookbench/api"
	"github.com/stellarlinkco/hookbench/internal/store"
)

func newServeCmd(st *cliState) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored results over a read-only HTTP API",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			stor, err := store.NewSQLiteStore(st.cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer stor.Close()

			srv, err := api.NewServer(stor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving results on %s\n", addr)
			return srv.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
