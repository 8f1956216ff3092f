package main

import (
	"os"

	"github.com/joho/godotenv"

	"repolens/internal/logging"
)

func main() {
	// A .env next to the binary or in the working directory may carry
	// OPENAI_API_KEY; absence is fine.
	_ = godotenv.Load()

	logger := logging.NewLogger(logging.Config{
		Format: logging.HumanFormat,
		Level:  logging.InfoLevel,
	})

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", logging.Fields{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}
