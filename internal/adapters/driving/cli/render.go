package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driving"
)

// stylesFor returns coloured styles when w is a terminal.
func stylesFor(w io.Writer) *styles.Styles {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return styles.DefaultStyles()
	}
	return styles.Plain()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// renderParsed prints a per-section summary of an extraction.
func renderParsed(w io.Writer, st *styles.Styles, parsed *driving.ParsedResume) {
	rec := parsed.Record
	if parsed.Stored != nil {
		fmt.Fprintf(w, "%s %s\n", st.Title.Render("Résumé"), parsed.Stored.ID)
		if name := parsed.Stored.CandidateName(); name != "" {
			fmt.Fprintf(w, "  %s %s\n", st.Subtitle.Render("Candidate:"), name)
		}
		if cat := parsed.Stored.Category(); cat != "" {
			fmt.Fprintf(w, "  %s %s\n", st.Subtitle.Render("Category:"), cat)
		}
	} else {
		fmt.Fprintln(w, st.Title.Render("Résumé (not saved)"))
	}
	if rec.IsEmpty() {
		fmt.Fprintln(w, st.Warning.Render("  Nothing could be extracted."))
		return
	}

	for _, d := range domain.Schemas() {
		res, ok := rec.Section(d.Name)
		if !ok {
			continue
		}
		renderResult(w, st, d.Name, res)
	}
	if rec.Classification.Schema != "" {
		renderResult(w, st, domain.SchemaClassification, rec.Classification)
	}
	fmt.Fprintf(w, "  %s\n", st.Muted.Render(fmt.Sprintf("model %s, %d chunks, %s",
		rec.Metadata.Model, rec.Metadata.ChunksProcessed, rec.Metadata.ExtractedAt.Format(time.RFC3339))))
}

func renderResult(w io.Writer, st *styles.Styles, name domain.SchemaName, res domain.ExtractionResult) {
	if res.Err != nil {
		fmt.Fprintf(w, "  %s %s: %s\n", st.Error.Render("✗"), name, res.Err.Error())
		return
	}
	fmt.Fprintf(w, "  %s %s\n", st.Success.Render("✓"), name)
}

// renderResumeRow prints one line of a résumé listing.
func renderResumeRow(w io.Writer, st *styles.Styles, r *domain.StoredResume) {
	name := r.CandidateName()
	if name == "" {
		name = "(unknown)"
	}
	line := fmt.Sprintf("%s  %s  %s", r.ID, r.UploadedAt.Local().Format("2006-01-02 15:04"), name)
	if cat := r.Category(); cat != "" {
		line += "  " + st.Muted.Render("["+cat+"]")
	}
	fmt.Fprintf(w, "%s  %s\n", line, st.Muted.Render(r.Filename))
}

// renderMeeting prints a scheduled meeting.
func renderMeeting(w io.Writer, st *styles.Styles, id string, m *domain.ScheduledMeeting, link string) {
	title := m.Summary
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintln(w, st.Title.Render(title))
	if id != "" {
		fmt.Fprintf(w, "  %s %s\n", st.Subtitle.Render("ID:"), id)
	}
	fmt.Fprintf(w, "  %s %s\n", st.Subtitle.Render("Start:"), m.Start.Format(domain.MeetingDateTimeLayout))
	fmt.Fprintf(w, "  %s %s\n", st.Subtitle.Render("End:"), m.End.Format(domain.MeetingDateTimeLayout))
	if len(m.Participants) > 0 {
		fmt.Fprintf(w, "  %s %s\n", st.Subtitle.Render("Participants:"), strings.Join(m.Participants, ", "))
	}
	if m.Location != nil && *m.Location != "" {
		fmt.Fprintf(w, "  %s %s\n", st.Subtitle.Render("Location:"), *m.Location)
	}
	if m.Notes != nil && *m.Notes != "" {
		fmt.Fprintf(w, "  %s %s\n", st.Subtitle.Render("Notes:"), *m.Notes)
	}
	if link != "" {
		fmt.Fprintf(w, "  %s %s\n", st.Subtitle.Render("Event:"), link)
	}
}

// renderCandidate prints an extracted meeting request before scheduling.
func renderCandidate(w io.Writer, st *styles.Styles, c *domain.MeetingCandidate) {
	if !c.IsCalendarEvent {
		fmt.Fprintln(w, st.Warning.Render("No meeting request found."))
		return
	}
	title := c.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintln(w, st.Title.Render(title))
	fmt.Fprintf(w, "  %s %s\n", st.Subtitle.Render("When:"), c.DateTime)
	fmt.Fprintf(w, "  %s %gh\n", st.Subtitle.Render("Duration:"), c.DurationHours)
	if len(c.Participants) > 0 {
		fmt.Fprintf(w, "  %s %s\n", st.Subtitle.Render("Participants:"), strings.Join(c.Participants, ", "))
	}
	fmt.Fprintf(w, "  %s %.2f\n", st.Subtitle.Render("Confidence:"), c.ConfidenceScore)
	if c.ConfirmationMessage != "" {
		fmt.Fprintln(w, "  "+st.Muted.Render(c.ConfirmationMessage))
	}
}
