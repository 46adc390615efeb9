package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumex/internal/core/ports/driving"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Extract structured data from a résumé",
	Long: `Extract structured data from a PDF, DOCX or plain text résumé.

Each section is extracted independently; a failed section is reported
without discarding the others. The record is saved unless --no-save is set.

Examples:
  resumex parse cv.pdf
  resumex parse cv.docx --json
  resumex parse cv.txt --no-save`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().Bool("json", false, "print the record as JSON")
	parseCmd.Flags().Bool("no-save", false, "do not store the record")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if resumeService == nil {
		return notConfigured("resume", true)
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	noSave, _ := cmd.Flags().GetBool("no-save")

	parsed, err := resumeService.ParseFile(cmd.Context(), args[0], driving.ParseOptions{NoSave: noSave})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if parsed.Stored != nil {
			return writeJSON(out, parsed.Stored)
		}
		m, err := parsed.Record.ToMap()
		if err != nil {
			return err
		}
		return writeJSON(out, m)
	}
	renderParsed(out, stylesFor(out), parsed)
	return nil
}
