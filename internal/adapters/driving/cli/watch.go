package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/resumex/internal/core/ports/driving"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Parse résumés dropped into a directory",
	Long: `Parse every résumé in a directory, then keep watching it and parse
new or changed files as they appear. Press Ctrl+C to stop.

Use --once to process the current contents and exit.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("once", false, "process existing files and exit")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest", true)
	}
	if newInbox == nil {
		return notConfigured("inbox", false)
	}
	once, _ := cmd.Flags().GetBool("once")

	conn := newInbox(args[0])
	defer func() { _ = conn.Close() }()
	if err := conn.Validate(cmd.Context()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	report := reportIngest(out, stylesFor(out))

	if err := ingestService.Sync(cmd.Context(), conn, report); err != nil || once {
		return err
	}
	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", args[0])
	return ingestService.Watch(cmd.Context(), conn, report)
}

func reportIngest(w io.Writer, st *styles.Styles) func(driving.IngestResult) {
	return func(r driving.IngestResult) {
		if r.Err != nil {
			fmt.Fprintf(w, "%s %s: %v\n", st.Error.Render("✗"), r.URI, r.Err)
			return
		}
		line := fmt.Sprintf("%s %s", st.Success.Render("✓"), r.URI)
		if r.Parsed != nil && r.Parsed.Stored != nil {
			line += " → " + r.Parsed.Stored.ID
			if name := r.Parsed.Stored.CandidateName(); name != "" {
				line += " " + st.Muted.Render("("+name+")")
			}
		}
		fmt.Fprintln(w, line)
	}
}
