package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	appDetection "github.com/NeuralTrust/TrustDetect/pkg/app/detection"
	"github.com/NeuralTrust/TrustDetect/pkg/common"
	"github.com/NeuralTrust/TrustDetect/pkg/dependency_container"
	"github.com/NeuralTrust/TrustDetect/pkg/handlers/http/response"
	infraLogger "github.com/NeuralTrust/TrustDetect/pkg/infra/logger"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	file     string
	features bool
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Score one text and print the verdict as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readAnalyzeInput(cmd.InOrStdin(), args, opts.file)
			if err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), text, opts.features)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read the text from a file, - for stdin")
	cmd.Flags().BoolVar(&opts.features, "features", false, "include the 83 named features in the output")
	return cmd
}

func readAnalyzeInput(stdin io.Reader, args []string, file string) (string, error) {
	switch {
	case len(args) == 1 && file != "":
		return "", errors.New("pass either a text argument or --file, not both")
	case len(args) == 1:
		return args[0], nil
	case file == "-":
		data, err := io.ReadAll(io.LimitReader(stdin, common.MaxTextBytes+1))
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return checkSize(string(data))
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return checkSize(string(data))
	default:
		return "", errors.New("a text argument or --file is required")
	}
}

func checkSize(text string) (string, error) {
	if len(text) > common.MaxTextBytes {
		return "", fmt.Errorf("text must not exceed %d bytes", common.MaxTextBytes)
	}
	return strings.TrimRight(text, "\n"), nil
}

func runAnalyze(ctx context.Context, stdout, stderr io.Writer, text string, includeFeatures bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := infraLogger.NewConsoleLogger(stderr)

	runtime := dependency_container.NewRuntime(logger, cfg)
	defer runtime.Close()

	analyzer, err := appDetection.NewAnalyzer(logger, runtime, dependency_container.NewAnalyzerConfig(cfg))
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := appDetection.NewDetector(logger, analyzer, nil).Detect(ctx, text)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(response.NewDetectResponse(response.DetectResponseInput{
		AnalysisID:       result.ID,
		Verdict:          result.Verdict,
		TextHash:         result.TextHash,
		ProcessingTimeMs: result.Duration.Milliseconds(),
		IncludeFeatures:  includeFeatures,
	}))
}
