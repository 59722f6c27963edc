package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/NeuralTrust/TrustDetect/pkg/infra/classifier"
	"github.com/spf13/cobra"
)

func newInspectModelCmd() *cobra.Command {
	var (
		sha256   string
		features int
	)
	cmd := &cobra.Command{
		Use:   "inspect-model <artifact>",
		Short: "Validate a classifier artifact and print its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspectModel(cmd.OutOrStdout(), args[0], sha256, features)
		},
	}
	cmd.Flags().StringVar(&sha256, "sha256", "", "expected hex digest of the artifact")
	cmd.Flags().IntVar(&features, "features", 0, "expected feature count (default 83)")
	return cmd
}

func runInspectModel(out io.Writer, path, sha256 string, features int) error {
	ensemble, err := classifier.Load(path,
		classifier.WithExpectedSHA256(sha256),
		classifier.WithExpectedFeatures(features),
	)
	if err != nil {
		return fmt.Errorf("invalid artifact: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(ensemble.Summary())
}
