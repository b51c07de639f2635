package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/ai"
	"github.com/spigell/jd-matcher/internal/analysis"
	"github.com/spigell/jd-matcher/internal/extract"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("jd", "", "job description file (.txt, .docx, .pdf)")
	analyzeCmd.Flags().String("resume", "", "resume file (.txt, .docx, .pdf)")
	analyzeCmd.Flags().String("email", "", "candidate email passed along with the request")
	analyzeCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before sending")
	analyzeCmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().Bool("json-output", false, "print the analysis result as JSON")

	analyzeCmd.MarkFlagRequired("jd")
	analyzeCmd.MarkFlagRequired("resume")
}

func analyze(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()

	jdFile, _ := cmd.Flags().GetString("jd")
	resumeFile, _ := cmd.Flags().GetString("resume")
	email, _ := cmd.Flags().GetString("email")
	autoApprove, _ := cmd.Flags().GetBool("auto-approve")
	output, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json-output")

	extractor := extract.New(logger)

	jd, err := readDocument(ctx, extractor, jdFile)
	if err != nil {
		logger.Fatal("reading the job description", zap.Error(err))
	}

	resume, err := readDocument(ctx, extractor, resumeFile)
	if err != nil {
		logger.Fatal("reading the resume", zap.Error(err))
	}

	logger.Info("documents extracted",
		zap.String("jd", jd.Source),
		zap.Int("jd_length", len(jd.Content)),
		zap.String("resume", resume.Source),
		zap.Int("resume_length", len(resume.Content)),
	)

	if !autoApprove {
		proceed, err := confirm(fmt.Sprintf("Send %s and %s for analysis", filepath.Base(jd.Source), filepath.Base(resume.Source)))
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if !proceed {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	analyzer, err := newAnalyzer(ctx, config, logger)
	if err != nil {
		logger.Fatal("creating the analyzer", zap.Error(err))
	}

	session := analysis.NewSession(uuid.NewString(), analyzer, logger)
	result, err := session.Analyze(ctx, ai.Request{
		JDText:     jd.Content,
		ResumeText: resume.Content,
		Email:      email,
	})
	if errors.Is(err, ai.ErrCancelled) {
		return
	}
	if err != nil {
		logger.Fatal("analysis failed", zap.String("kind", ai.Kind(err)), zap.Error(err))
	}

	if err := writeResult(output, jsonOutput, result); err != nil {
		logger.Fatal("writing the report", zap.Error(err))
	}
}

func readDocument(ctx context.Context, extractor *extract.Extractor, path string) (*extract.Extracted, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if err := extract.CheckSize(info.Size()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return extractor.Extract(ctx, extract.Document{Name: path, Data: data, Size: info.Size()})
}

// confirm returns false for an explicit "no" and for Ctrl-C.
func confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func writeResult(output string, asJSON bool, result *ai.Result) error {
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	return writeReport(w, result)
}
