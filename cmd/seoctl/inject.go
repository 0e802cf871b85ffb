package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/c0de128/4seasons/internal/content"
	"github.com/c0de128/4seasons/internal/head"
	"github.com/c0de128/4seasons/internal/seo"
)

type injectFlags struct {
	shell   string
	out     string
	mainSel string
}

func newInjectCmd(f *rootFlags) *cobra.Command {
	in := &injectFlags{}
	cmd := &cobra.Command{
		Use:   "inject <content-dir>",
		Short: "Export every content page as static HTML",
		Long: `Parses the shell once and reuses it for every page: the metadata is
applied, the page body is placed in the --main element, the document is
written to <out>/<path>/index.html, and the metadata is unmounted so
the next page starts from the pristine shell head.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := f.site(cmd.Context())
			if err != nil {
				return err
			}
			lib, err := content.Load(args[0])
			if err != nil {
				return err
			}
			n, err := inject(lib, site.SEODefaults(), in)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported %d pages to %s\n", n, in.out)
			return err
		},
	}
	cmd.Flags().StringVar(&in.shell, "shell", "", "HTML page shell (required)")
	cmd.Flags().StringVar(&in.out, "out", "dist", "output directory")
	cmd.Flags().StringVar(&in.mainSel, "main", "main", "selector that receives the page body")
	_ = cmd.MarkFlagRequired("shell")
	return cmd
}

func inject(lib *content.Library, site seo.SiteDefaults, in *injectFlags) (int, error) {
	raw, err := os.Open(in.shell)
	if err != nil {
		return 0, fmt.Errorf("open shell: %w", err)
	}
	doc, err := head.Parse(raw)
	_ = raw.Close()
	if err != nil {
		return 0, err
	}

	ctrl := seo.NewController(doc, site)
	count := 0
	for _, p := range lib.All() {
		if err := ctrl.Apply(p.Metadata(site)); err != nil {
			return count, fmt.Errorf("%s: %w", p.Path, err)
		}
		if doc.SetInnerHTML(in.mainSel, string(p.HTML)) == 0 {
			zap.S().Debugw("shell has no body target", "selector", in.mainSel, "path", p.Path)
		}

		err := writeDoc(doc, filepath.Join(in.out, filepath.FromSlash(p.Path), "index.html"))
		ctrl.Unmount()
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func writeDoc(doc *head.HTMLDocument, file string) (err error) {
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	out, err := os.Create(file)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, out.Close()) }()
	return doc.Render(out)
}
