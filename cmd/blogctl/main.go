// Command blogctl is a terminal client for the quill API.
package main

import (
	"fmt"
	"os"

	"github.com/jeremyjsx/quill/internal/auth"
	"github.com/jeremyjsx/quill/internal/client"
	"github.com/jeremyjsx/quill/internal/config"
	"github.com/jeremyjsx/quill/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type app struct {
	cfg     *config.ClientConfig
	log     zerolog.Logger
	session *auth.KeySession
	api     *client.Client
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.LoadClient(logger.New("warn"))}

	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Write, save and publish quill posts from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.APIURL, "api-url", a.cfg.APIURL, "base URL of the quill API")
	flags.StringVar(&a.cfg.APIKey, "key", a.cfg.APIKey, "API key used for writes")
	flags.StringVar(&a.cfg.User, "user", a.cfg.User, "name shown for the session")
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level")
	flags.DurationVar(&a.cfg.RequestTimeout, "timeout", a.cfg.RequestTimeout, "per-request timeout")

	root.AddCommand(
		newListCmd(a),
		newGetCmd(a),
		newSaveCmd(a),
		newPublishCmd(a),
		newEditCmd(a),
	)
	return root
}

func (a *app) init() {
	a.log = logger.New(a.cfg.LogLevel)
	a.session = auth.NewKeySession(a.cfg.User, a.cfg.APIKey)
	a.api = client.New(a.cfg.APIURL,
		client.WithKeySource(a.session),
		client.WithTimeout(a.cfg.RequestTimeout),
	)
}
