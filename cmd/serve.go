package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omnidive/omnidive/internal/dashboard"
	"github.com/omnidive/omnidive/internal/explorer"
	"github.com/omnidive/omnidive/internal/history"
	"github.com/omnidive/omnidive/internal/server"
	"github.com/omnidive/omnidive/internal/web"
)

var (
	servePort        int
	serveHost        string
	serveMaxSessions int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the OmniDive web server",
	Long:  `Starts the HTTP server with the explorer page, its JSON API, the live state websocket and the hosting dashboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		logger, closeLog, err := createLogger(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		cg, ig, err := createGenerators(cfg, logger)
		if err != nil {
			return err
		}

		database, store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		dash := dashboard.New(dashboard.RuntimeMemory{}, store)
		dash.Mount()

		registry := explorer.NewRegistry(func(id string) *explorer.Shell {
			return explorer.NewShell(cg, ig, explorer.Options{
				SessionID:    id,
				Policy:       cfg.OverlapPolicy,
				DefaultTopic: cfg.DefaultTopic,
				Logger:       logger,
				Recorder:     store,
			})
		}, serveMaxSessions)

		srv := server.New(server.Config{
			Host:     serveHost,
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAll,
		}, logger)

		r := srv.Router()
		web.New(web.Options{
			Registry:  registry,
			Dashboard: dash,
			Policy:    cfg.OverlapPolicy,
			Logger:    logger,
		}).RegisterRoutes(r)
		dash.RegisterRoutes(r)
		history.RegisterRoutes(r, store, web.SessionFromRequest)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown", zap.Error(err))
			}
		}()

		fmt.Fprintf(os.Stderr, "omnidive %s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s, %s)\n", cfg.Provider, cfg.TextModel, cfg.ImageModel)
		fmt.Fprintf(os.Stderr, "  History: %s\n", database.Path())

		return srv.Start(dash.MarkLoaded)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to listen on (overrides server.port)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "interface to bind (default all)")
	serveCmd.Flags().IntVar(&serveMaxSessions, "max-sessions", 1000, "visitor sessions kept in memory")
	rootCmd.AddCommand(serveCmd)
}
