package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/coursenotes/internal/client/models"
)

func printNotes(w io.Writer, notes []models.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notes found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tCOURSE\tTERM\tUPVOTES\tDOWNLOADS")
	for _, n := range notes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %d\t%d\t%d\n",
			n.ID, n.CourseCode, n.CourseName, n.Semester, n.Year, n.Upvotes, n.Downloads)
	}
	_ = tw.Flush()
}

func printNote(w io.Writer, n models.Note, vs models.VoteState) {
	fmt.Fprintf(w, "%s\n", n.String())
	fmt.Fprintf(w, "  term:        %s %d\n", n.Semester, n.Year)
	if n.Description != "" {
		fmt.Fprintf(w, "  description: %s\n", n.Description)
	}
	if len(n.ProfessorNames) > 0 {
		fmt.Fprintf(w, "  professors:  %s\n", strings.Join(n.ProfessorNames, ", "))
	}
	if len(n.Tags) > 0 {
		fmt.Fprintf(w, "  tags:        %s\n", strings.Join(n.Tags, ", "))
	}
	if n.UploaderUser.FullName != "" {
		fmt.Fprintf(w, "  uploaded by: %s\n", n.UploaderUser.FullName)
	}
	mark := ""
	if vs.Direction == models.VoteUpvote {
		mark = " (you upvoted)"
	}
	fmt.Fprintf(w, "  upvotes:     %d%s\n", vs.Upvotes, mark)
	fmt.Fprintf(w, "  downloads:   %d\n", n.Downloads)
}

func printLeaderboard(w io.Writer, rows []models.LeaderboardEntry) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "Leaderboard is empty.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tREPUTATION\tNOTES\tUPVOTES\tDOWNLOADS\tID")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.Rank, r.FullName, r.Reputation, r.TotalNotes, r.TotalUpvotes, r.TotalDownloads, r.ID)
	}
	_ = tw.Flush()
}
