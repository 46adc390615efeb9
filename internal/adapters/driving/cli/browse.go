package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumex/internal/adapters/driving/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse stored résumés and meetings interactively",
	Long: `Open a full-screen browser over stored résumés and scheduled meetings.

Keys:
  ↑/↓ or j/k  move
  enter       open the highlighted record
  tab         switch between résumés and meetings
  /           filter by name, category or file
  d           delete the highlighted résumé
  r           reload
  esc         back
  q           quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return notConfigured("record", false)
	}
	return tui.Run(cmd.Context(), &tui.Ports{Records: recordService})
}
