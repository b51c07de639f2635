package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the plain text of a .txt, .docx or .pdf file",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		logger, _ := setup()

		text, err := readDocument(ctx, extract.New(logger), args[0])
		if err != nil {
			logger.Fatal("extracting text", zap.String("file", args[0]), zap.Error(err))
		}

		fmt.Println(text.Content)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
