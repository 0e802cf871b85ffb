// cmd/seoctl/main.go
//
// seoctl – offline tooling for page metadata.
//
// Commands
// --------
//
//	seoctl head <page.yaml>                           print the rendered <head>
//	seoctl inject --shell shell.html --out dist <dir> export static HTML
//
// Site defaults come from conf/site.yaml (found the same way the web
// server finds it) unless --site-name or --base-url is given, which skips
// the config file entirely.
package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/c0de128/4seasons/internal/config"
	"github.com/c0de128/4seasons/internal/logger"
	"github.com/c0de128/4seasons/internal/vault"
)

type rootFlags struct {
	siteName string
	baseURL  string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:           "seoctl",
		Short:         "Inspect and export page metadata",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Console(f.verbose)
		},
	}
	root.PersistentFlags().StringVar(&f.siteName, "site-name", "", "site name (skips conf/site.yaml)")
	root.PersistentFlags().StringVar(&f.baseURL, "base-url", "", "site base URL (skips conf/site.yaml)")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newHeadCmd(f), newInjectCmd(f))
	return root
}

// site resolves the site block from flags or configuration.
func (f *rootFlags) site(ctx context.Context) (config.Site, error) {
	if f.siteName != "" || f.baseURL != "" {
		return config.Site{Name: f.siteName, BaseURL: f.baseURL, Locale: "en_US"}, nil
	}

	var secrets config.SecretResolver
	if os.Getenv("VAULT_ADDR") != "" {
		cli, err := vault.New(ctx, vault.Options{CacheTTL: time.Minute})
		if err != nil {
			return config.Site{}, err
		}
		secrets = cli
	}
	cfg, err := config.Load(ctx, secrets)
	if err != nil {
		return config.Site{}, err
	}
	return cfg.Site, nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.Console(false).Errorw("seoctl failed", "err", err)
		os.Exit(1)
	}
}
