package main

import (
	"errors"
	"log"
	"os"

	"github.com/NeuralTrust/TrustDetect/pkg/config"
	"github.com/NeuralTrust/TrustDetect/pkg/version"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configDir string

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "trustdetect",
		Short:        "Detects AI-generated text from token-level predictability",
		Version:      version.Version,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "config", "directory containing config.yaml")

	rootCmd.AddCommand(
		newServeCmd(),
		newAnalyzeCmd(),
		newInspectModelCmd(),
		newTokenCmd(),
	)
	return rootCmd
}

// loadConfig applies defaults and the environment when config.yaml is
// absent.
func loadConfig() (*config.Config, error) {
	if err := config.Load(configDir); err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return nil, err
		}
		log.Println(err.Error())
	}
	return config.GetConfig(), nil
}
