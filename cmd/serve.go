package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/reportdesk/internal/server"
	"github.com/KaramelBytes/reportdesk/internal/session"
	"github.com/spf13/cobra"
)

var (
	srvFlags  ingestFlags
	srvListen string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser UI for uploading files and downloading reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		opt, err := srvFlags.options(cmd, c)
		if err != nil {
			return err
		}
		addr := c.ListenAddr
		if srvListen != "" {
			addr = srvListen
		}

		logger, closeLog := newLogger(cmd.ErrOrStderr())
		defer closeLog()

		store, err := session.NewStore(c.SessionCacheSize)
		if err != nil {
			return err
		}
		srv := server.New(store, server.Config{
			Report:     opt,
			Logger:     logger,
			RequestLog: debug,
		})

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	srvFlags.register(serveCmd)
	serveCmd.Flags().StringVar(&srvListen, "listen", "", "listen address (overrides config listen_addr)")
}

