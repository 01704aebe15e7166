package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/netprobe/netprobe-ui/internal/config"
	"github.com/netprobe/netprobe-ui/internal/ui/navigation"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the UI navigation table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			return printRoutes(cmd.OutOrStdout(), navigation.Default(cfg.LanguageTag()))
		},
	}
}

func printRoutes(w io.Writer, table *navigation.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "PATH\tNAME\tTITLE\n")
	fmt.Fprintf(tw, "/\t-\t-> %s\n", table.Redirect())
	for _, r := range table.Routes() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.FullPath(), r.Name, r.Title)
	}
	return tw.Flush()
}
