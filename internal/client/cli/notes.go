package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/coursenotes/internal/client/models"
	"github.com/dmitrijs2005/coursenotes/internal/client/services"
)

// countArg parses an optional positive count argument.
func countArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid count %q", args[0])
	}
	return n, nil
}

func (a *App) List(ctx context.Context, args []string) error {
	n, err := countArg(args)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: list [count]")
		return err
	}
	notes, err := a.catalog.Load(ctx, n)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	printNotes(a.out, notes)
	return nil
}

// Search lists notes matching the query. An empty query lists the newest
// notes.
func (a *App) Search(ctx context.Context, args []string) error {
	notes, err := a.catalog.Search(ctx, strings.Join(args, " "))
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	printNotes(a.out, notes)
	return nil
}

func (a *App) noteArg(ctx context.Context, args []string, usage string) (models.Note, bool) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage:", usage)
		return models.Note{}, false
	}
	n, err := a.catalog.Get(ctx, args[0])
	if err != nil {
		log.Printf("error: %v", err)
		return models.Note{}, false
	}
	return n, true
}

func (a *App) Show(ctx context.Context, args []string) error {
	n, ok := a.noteArg(ctx, args, "show <id>")
	if !ok {
		return nil
	}
	printNote(a.out, n, a.catalog.Votes(n).State())
	return nil
}

// Vote upvotes a note, or removes the vote with "remove". Voting on a held
// upvote removes it.
func (a *App) Vote(ctx context.Context, args []string) error {
	n, ok := a.noteArg(ctx, args, "vote <id> [up|remove]")
	if !ok {
		return nil
	}

	dir := models.VoteUpvote
	if len(args) > 1 {
		switch args[1] {
		case "up", "upvote":
		case "remove", "none":
			dir = models.VoteNone
		default:
			fmt.Fprintln(a.out, "Usage: vote <id> [up|remove]")
			return nil
		}
	}

	v := a.catalog.Votes(n)
	err := v.Vote(ctx, dir)
	if errors.Is(err, services.ErrVoteInFlight) {
		fmt.Fprintln(a.out, "A vote on this note is already in progress.")
		return err
	}
	if err != nil {
		// the failure notice was already shown by the vote controller
		return err
	}
	if err := a.resumeIfGated(ctx); err != nil {
		return err
	}

	if a.auth.IsAuthenticated() {
		s := v.State()
		fmt.Fprintf(a.out, "%s: %d upvotes\n", n.ID, s.Upvotes)
	}
	return nil
}

func (a *App) Download(ctx context.Context, args []string) error {
	n, ok := a.noteArg(ctx, args, "download <id>")
	if !ok {
		return nil
	}
	where, err := a.catalog.Download(ctx, n)
	if err != nil {
		log.Printf("download failed: %v", err)
		return err
	}
	fmt.Fprintf(a.out, "Saved to %s\n", where)
	return nil
}
