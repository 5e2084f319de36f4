package cli

import (
	"context"
	"fmt"
	"log"
)

func (a *App) Leaderboard(ctx context.Context, args []string) error {
	n, err := countArg(args)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: leaderboard [count]")
		return err
	}
	rows, err := a.users.Leaderboard(ctx, n)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	printLeaderboard(a.out, rows)
	return nil
}

// Profile shows a user's stats and notes; without an id, the signed-in
// user's.
func (a *App) Profile(ctx context.Context, args []string) error {
	var id string
	switch {
	case len(args) > 0:
		id = args[0]
	case a.auth.User() != nil:
		id = a.auth.User().ID
	default:
		fmt.Fprintln(a.out, "Usage: profile <user-id>")
		return nil
	}

	p, err := a.users.Profile(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if s := p.Stats; s != nil {
		fmt.Fprintf(a.out, "%s (rank #%d)\nreputation: %d  notes: %d  upvotes: %d  downloads: %d\n",
			s.FullName, s.Rank, s.Reputation, s.TotalNotes, s.TotalUpvotes, s.TotalDownloads)
	} else {
		fmt.Fprintf(a.out, "User %s (stats unavailable)\n", p.UserID)
	}
	printNotes(a.out, p.Notes)
	return nil
}
