package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c0de128/4seasons/internal/content"
	"github.com/c0de128/4seasons/internal/head"
	"github.com/c0de128/4seasons/internal/seo"
)

func newHeadCmd(f *rootFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "head <page.yaml>",
		Short: "Print the <head> a content page renders to",
		Long: `Loads one content file, fills its metadata from the site defaults,
applies it to an empty head, and prints the elements one per line.

With --json the resolved metadata is printed instead, which is the
input the controller fingerprints.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := f.site(cmd.Context())
			if err != nil {
				return err
			}
			p, err := content.ReadPage(args[0])
			if err != nil {
				return err
			}
			meta := p.Metadata(site.SEODefaults())

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(meta)
			}

			b := head.New()
			if err := seo.NewController(b, site.SEODefaults()).Apply(meta); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, splitTags(string(b.HTML())))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print resolved metadata as JSON")
	return cmd
}

// splitTags puts each element on its own line.
func splitTags(s string) string {
	return strings.ReplaceAll(s, "><", ">\n<")
}
