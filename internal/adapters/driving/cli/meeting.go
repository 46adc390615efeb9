package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

var meetingCmd = &cobra.Command{
	Use:   "meeting [text...]",
	Short: "Detect a meeting request in free text",
	Long: `Detect a meeting request in free text and optionally schedule it.

The text is read from the arguments, or from stdin when none are given.
With --schedule the meeting is stored and, when a calendar is configured,
published as an event.

Examples:
  resumex meeting "Interview with jane@example.com tomorrow at 3pm for an hour"
  echo "sync with Bob on Friday 10:00" | resumex meeting --schedule`,
	RunE: runMeeting,
}

func init() {
	meetingCmd.Flags().Bool("schedule", false, "store and publish the meeting")
	meetingCmd.Flags().Bool("json", false, "print the result as JSON")
	rootCmd.AddCommand(meetingCmd)
}

func runMeeting(cmd *cobra.Command, args []string) error {
	if meetingService == nil {
		return notConfigured("meeting", true)
	}
	schedule, _ := cmd.Flags().GetBool("schedule")
	asJSON, _ := cmd.Flags().GetBool("json")

	text := strings.Join(args, " ")
	if len(args) == 0 {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		text = string(b)
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("meeting text is required")
	}

	out := cmd.OutOrStdout()
	st := stylesFor(out)

	if !schedule {
		c, err := meetingService.Extract(cmd.Context(), text)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(out, c)
		}
		if c == nil {
			fmt.Fprintln(out, st.Warning.Render("No meeting request found."))
			return nil
		}
		renderCandidate(out, st, c)
		return nil
	}

	stored, err := meetingService.Schedule(cmd.Context(), text)
	if errors.Is(err, domain.ErrNoMeeting) {
		if asJSON {
			return writeJSON(out, nil)
		}
		fmt.Fprintln(out, st.Warning.Render("No meeting request found."))
		return nil
	}
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(out, stored)
	}
	renderMeeting(out, st, stored.ID, &stored.Meeting, stored.EventLink)
	return nil
}
