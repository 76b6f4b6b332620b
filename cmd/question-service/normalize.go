package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SAP-F-2025/question-service/internal/answerconfig"
	"github.com/spf13/cobra"
)

func normalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize [config.json|-]",
		Short: "Normalize an answer config without touching the database",
		Long: `Reads an answer config (from a file, stdin when the argument is "-", or
--config) and prints its normalized form. Without a config the legacy
--options and --correct-answer flags are used to synthesize one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runNormalize,
	}
	f := cmd.Flags()
	f.StringP("type", "t", "", "Declared question type (multiple_choice, fill_blank, essay)")
	f.StringP("config", "c", "", "Answer config JSON")
	f.String("options", "", "Legacy options column (JSON array)")
	f.String("correct-answer", "", "Legacy correct_answer column")
	return cmd
}

func runNormalize(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	questionType, _ := flags.GetString("type")
	rawConfig, _ := flags.GetString("config")
	options, _ := flags.GetString("options")
	correctAnswer, _ := flags.GetString("correct-answer")

	if len(args) == 1 {
		data, err := readConfigSource(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		rawConfig = string(data)
	}

	raw := answerconfig.RawAttributes{Type: questionType, CorrectAnswer: correctAnswer}
	if options != "" {
		raw.Options = options
	}

	var stored any
	if strings.TrimSpace(rawConfig) != "" {
		stored = rawConfig
	}

	cfg, err := answerconfig.LoadForDisplay(stored, raw)
	if err != nil {
		var cfgErr *answerconfig.Error
		if errors.As(err, &cfgErr) {
			return fmt.Errorf("%s (field %s): %w", cfgErr.Code(), cfgErr.Field, err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if cfg == nil {
		_, err := fmt.Fprintln(out, "null")
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

func readConfigSource(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
