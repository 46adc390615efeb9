package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

var resumesCmd = &cobra.Command{
	Use:   "resumes",
	Short: "Browse stored résumés",
}

var resumesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored résumés, newest first",
	Args:  cobra.NoArgs,
	RunE:  runResumesList,
}

var resumesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print a stored résumé as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumesGet,
}

var resumesLastCmd = &cobra.Command{
	Use:   "last",
	Short: "Print the most recently uploaded résumé as JSON",
	Args:  cobra.NoArgs,
	RunE:  runResumesLast,
}

var resumesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored résumé",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumesDelete,
}

var meetingsCmd = &cobra.Command{
	Use:   "meetings",
	Short: "Browse scheduled meetings",
}

var meetingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled meetings, newest first",
	Args:  cobra.NoArgs,
	RunE:  runMeetingsList,
}

var meetingsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a scheduled meeting",
	Args:  cobra.ExactArgs(1),
	RunE:  runMeetingsGet,
}

func init() {
	resumesListCmd.Flags().IntP("limit", "n", 20, "maximum number of résumés (0 = all)")
	resumesCmd.AddCommand(resumesListCmd, resumesGetCmd, resumesLastCmd, resumesDeleteCmd)
	rootCmd.AddCommand(resumesCmd)

	meetingsListCmd.Flags().IntP("limit", "n", 20, "maximum number of meetings (0 = all)")
	meetingsGetCmd.Flags().Bool("json", false, "print the meeting as JSON")
	meetingsCmd.AddCommand(meetingsListCmd, meetingsGetCmd)
	rootCmd.AddCommand(meetingsCmd)
}

func runResumesList(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return notConfigured("record", false)
	}
	limit, _ := cmd.Flags().GetInt("limit")

	resumes, err := recordService.ListResumes(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(resumes) == 0 {
		fmt.Fprintln(out, "No résumés stored.")
		return nil
	}
	st := stylesFor(out)
	for i := range resumes {
		renderResumeRow(out, st, &resumes[i])
	}
	return nil
}

func runResumesGet(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return notConfigured("record", false)
	}
	r, err := recordService.GetResume(cmd.Context(), args[0])
	if err != nil {
		return recordError("résumé", args[0], err)
	}
	return writeJSON(cmd.OutOrStdout(), r)
}

func runResumesLast(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return notConfigured("record", false)
	}
	r, err := recordService.LastResume(cmd.Context())
	if errors.Is(err, domain.ErrNotFound) {
		return errors.New("no résumés stored")
	}
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), r)
}

func runResumesDelete(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return notConfigured("record", false)
	}
	if err := recordService.DeleteResume(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func runMeetingsList(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return notConfigured("record", false)
	}
	limit, _ := cmd.Flags().GetInt("limit")

	meetings, err := recordService.ListMeetings(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(meetings) == 0 {
		fmt.Fprintln(out, "No meetings scheduled.")
		return nil
	}
	st := stylesFor(out)
	for _, m := range meetings {
		title := m.Meeting.Summary
		if title == "" {
			title = "(untitled)"
		}
		line := fmt.Sprintf("%s  %s  %s", m.ID, m.Meeting.Start.Format("2006-01-02 15:04"), title)
		if m.EventLink != "" {
			line += "  " + st.Muted.Render(m.EventLink)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func runMeetingsGet(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return notConfigured("record", false)
	}
	m, err := recordService.GetMeeting(cmd.Context(), args[0])
	if err != nil {
		return recordError("meeting", args[0], err)
	}
	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(out, m)
	}
	renderMeeting(out, stylesFor(out), m.ID, &m.Meeting, m.EventLink)
	return nil
}

func recordError(kind, id string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s %s not found", kind, id)
	}
	return err
}
