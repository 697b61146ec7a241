package cli

import (
	"fmt"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"prforge/internal/domain"
)

func renderComment(w io.Writer, c domain.ReviewComment) {
	_, _ = fmt.Fprintf(w, "comment %d by %s\n", c.ID, c.Author)
	if c.IsReply() {
		_, _ = fmt.Fprintf(w, "  in reply to %d\n", c.InReplyTo)
	} else {
		_, _ = fmt.Fprintf(w, "  %s position %d (commit %s)\n", c.Path, c.Position, c.CommitSHA)
	}
	_, _ = fmt.Fprintf(w, "  created %s", c.CreatedAt.Format("2006-01-02 15:04:05"))
	if c.Edited() {
		_, _ = fmt.Fprintf(w, " (edited %s)", c.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "\n  %s\n", c.Body)
}

func renderComments(w io.Writer, comments []domain.ReviewComment) {
	if len(comments) == 0 {
		_, _ = fmt.Fprintln(w, "no comments")
		return
	}
	for _, c := range comments {
		renderComment(w, c)
	}
	_, _ = fmt.Fprintf(w, "%d comment(s)\n", len(comments))
}

func renderPullRequest(w io.Writer, pr domain.PullRequest) {
	caser := cases.Title(language.English)
	_, _ = fmt.Fprintf(w, "#%d %s\n", pr.Number, pr.Title)
	_, _ = fmt.Fprintf(w, "  %s: %s -> %s\n", caser.String(pr.State), pr.Head, pr.Base)
	if pr.Body != "" {
		_, _ = fmt.Fprintf(w, "  %s\n", pr.Body)
	}
}
