package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"study-buddy/internal/app"
	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
	"study-buddy/internal/logger"
	"study-buddy/internal/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate questions once from a file or stdin and print them as JSON",
	Example: `  study-buddy generate --file notes.txt --difficulty hard --count 10
  cat notes.txt | study-buddy generate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		count, _ := cmd.Flags().GetInt("count")
		pretty, _ := cmd.Flags().GetBool("pretty")

		if err := logger.InitializeTo(cfg.Logger, zapcore.Lock(os.Stderr)); err != nil {
			return err
		}

		text, err := readSource(cmd, path)
		if err != nil {
			return err
		}

		components, err := app.Build(cfg)
		if err != nil {
			return err
		}
		defer components.Close()

		resp, err := components.Questions.GenerateQuestions(cmd.Context(), util.NewULID(), &dto.GenerateQuestionsRequest{
			Text:       text,
			Difficulty: difficulty,
			Count:      count,
		})
		if err != nil {
			var domainErr *domain.DomainError
			if errors.As(err, &domainErr) {
				return fmt.Errorf("%s (%s)", domainErr.Message, domainErr.Code)
			}
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		if pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(resp)
	},
}

func init() {
	generateCmd.Flags().StringP("file", "f", "", "Read study material from this file instead of stdin")
	generateCmd.Flags().StringP("difficulty", "d", string(domain.DifficultyMedium), "Question difficulty: easy, medium or hard")
	generateCmd.Flags().IntP("count", "n", 5, "Number of questions to generate")
	generateCmd.Flags().Bool("pretty", false, "Indent the JSON output")
}

func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
