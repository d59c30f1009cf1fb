package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clinicode/rxscan/internal/pipeline"
)

// extractCmd represents the extract command.
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract structured prescription data from a scanned document",
	Long: `Extract structured prescription data from a scanned prescription image
or PDF and print the result document as JSON.

Supported formats: JPEG, PNG, WebP, BMP, PDF

Without a recognition engine configured the pipeline still runs the
image-analysis stages (quality report, table geometry, dose marks) and
emits a review-flagged document.

Examples:
  rxscan extract prescription.jpg
  rxscan extract scan.pdf --output result.json
  rxscan extract photo.png --pretty=false`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		outputFile := cfg.Output.File
		if cmd.Flags().Changed("output") {
			outputFile, _ = cmd.Flags().GetString("output")
		}
		pretty := cfg.Output.Pretty
		if cmd.Flags().Changed("pretty") {
			pretty, _ = cmd.Flags().GetBool("pretty")
		}
		if cmd.Flags().Changed("template") {
			cfg.Pipeline.TemplateFile, _ = cmd.Flags().GetString("template")
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		if len(data) == 0 {
			return errors.New("input file is empty")
		}

		lex, err := cfg.NewLexicon()
		if err != nil {
			return fmt.Errorf("building lexicon: %w", err)
		}
		orch, err := pipeline.New(cfg.Pipeline, nil, lex, nil)
		if err != nil {
			return fmt.Errorf("building pipeline: %w", err)
		}

		result, err := orch.Extract(cmd.Context(), data, args[0])
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}

		var out []byte
		if pretty {
			out, err = json.MarshalIndent(result, "", "  ")
		} else {
			out, err = json.Marshal(result)
		}
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}

		if outputFile != "" {
			if err := os.WriteFile(outputFile, out, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outputFile, err)
			}
			return nil
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "write the result document to a file instead of stdout")
	extractCmd.Flags().Bool("pretty", true, "indent the JSON output")
	extractCmd.Flags().String("template", "", "YAML form template overriding the built-in page geometry")
}
