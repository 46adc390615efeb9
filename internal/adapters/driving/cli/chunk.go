package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk <file>",
	Short: "Show how a résumé is cleaned and chunked",
	Long: `Extract, clean and chunk a résumé without calling any AI provider.

Useful for checking how section headers are recognised before parsing.`,
	Args: cobra.ExactArgs(1),
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().Bool("json", false, "print chunks as JSON")
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	if normaliserRegistry == nil || chunkPipeline == nil {
		return notConfigured("chunk", false)
	}
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	raw := &domain.RawDocument{
		URI:      path,
		MIMEType: domain.MIMETypeForPath(path),
		Content:  content,
	}
	res, err := normaliserRegistry.Normalise(cmd.Context(), raw)
	if err != nil {
		return fmt.Errorf("extract text from %s: %w", filepath.Base(path), err)
	}

	doc := res.Document
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	chunks, err := chunkPipeline.Process(cmd.Context(), &doc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(out, chunks)
	}

	st := stylesFor(out)
	fmt.Fprintf(out, "%s %s (%s)\n", st.Title.Render(doc.Title), st.Muted.Render(strings.Join(chunkPipeline.Names(), " → ")), doc.MIMEType)
	if len(chunks) == 0 {
		fmt.Fprintln(out, st.Warning.Render("No chunks produced."))
		return nil
	}
	for _, c := range chunks {
		section := c.Section
		if section == "" {
			section = "(preamble)"
		}
		fmt.Fprintf(out, "\n%s %s\n%s\n", st.Subtitle.Render(fmt.Sprintf("#%d", c.Position)), st.Muted.Render(section), c.Content)
	}
	return nil
}
