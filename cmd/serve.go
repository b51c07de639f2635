package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extract and analyze HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger, config := setup()
		logger.Info("starting the jd-matcher api", zap.String("version", version))

		analyzer, err := newAnalyzer(ctx, config, logger)
		if err != nil {
			logger.Fatal("creating the analyzer", zap.Error(err))
		}

		srv := server.New(server.Config{
			Listen:    config.Serve.Listen,
			RateLimit: config.Serve.RateLimit,
			Burst:     config.Serve.Burst,
		}, analyzer, logger)

		if err := srv.Run(ctx); err != nil {
			logger.Fatal("serving", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8080)")
	viper.BindPFlag("serve.listen", serveCmd.Flags().Lookup("listen"))
}
