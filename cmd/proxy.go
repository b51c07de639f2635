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

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Run the local dev proxy that forwards /api/analyze to the webhook",
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger, config := setup()

		p, err := server.NewProxy(config.Proxy.Listen, config.Proxy.Target, logger)
		if err != nil {
			logger.Fatal("creating the proxy", zap.Error(err))
		}

		if err := p.Run(ctx); err != nil {
			logger.Fatal("proxying", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(proxyCmd)

	proxyCmd.Flags().String("target", "", "upstream webhook URL")
	viper.BindPFlag("proxy.target", proxyCmd.Flags().Lookup("target"))
}
