package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/dhamidi/arith/ui"
	"github.com/spf13/cobra"
)

func newUICmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the web UI server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := ui.NewServer()
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			displayAddr := addr
			if strings.HasPrefix(addr, ":") {
				displayAddr = "localhost" + addr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Starting server at http://%s\n", displayAddr)
			return http.ListenAndServe(addr, server)
		},
	}

	defaultAddr := ":8080"
	if env := os.Getenv("ARITH_ADDR"); env != "" {
		defaultAddr = env
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", defaultAddr, "address to listen on (default from ARITH_ADDR)")

	return cmd
}
