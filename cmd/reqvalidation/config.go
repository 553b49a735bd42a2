package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Gobd/reqvalidation/env"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "List the configuration keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			docs, err := env.Docs()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tREQUIRED\tTYPE\tDEFAULT\tALLOWED\tDESCRIPTION")
			for _, d := range docs {
				s := d.Schema.Value
				def := "-"
				if s.Default != nil {
					def = fmt.Sprint(s.Default)
				}
				allowed := "-"
				if len(s.Enum) > 0 {
					vals := make([]string, len(s.Enum))
					for i, e := range s.Enum {
						vals[i] = fmt.Sprint(e)
					}
					allowed = strings.Join(vals, "|")
				}
				desc := s.Description
				if desc == "" {
					desc = "-"
				}
				fmt.Fprintf(tw, "%s\t%t\t%s\t%s\t%s\t%s\n", d.Name, d.Required, strings.Join(s.Type.Slice(), ","), def, allowed, desc)
			}
			return tw.Flush()
		},
	}
}
