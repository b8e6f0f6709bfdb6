package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jask/notefeed/internal/content"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the content types that can be added to a notebook",
	Run: func(cmd *cobra.Command, _ []string) {
		listTypes(cmd, content.NewDefaultRegistry())
	},
}

func listTypes(cmd *cobra.Command, reg *content.Registry) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	category := ""
	for _, d := range reg.Descriptors() {
		if d.Category != category {
			if category != "" {
				fmt.Fprintln(w)
			}
			category = d.Category
			fmt.Fprintf(w, "%s\n", category)
		}
		gen := ""
		if d.Generative() {
			gen = "[" + string(d.Capture.Generation) + "]"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", d.Tag, d.Name, d.Description, gen)
	}
	_ = w.Flush()
}
