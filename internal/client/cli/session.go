package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/dmitrijs2005/coursenotes/internal/client/signin"
)

// Login opens the sign-in prompt.
func (a *App) Login(ctx context.Context) error {
	if u := a.auth.User(); u != nil {
		fmt.Fprintf(a.out, "Already signed in as %s\n", u.Email)
		return nil
	}
	if _, open := a.gate.Pending(); !open {
		a.gate.Trigger(nil, signin.Presentation{})
	}
	return a.signIn(ctx)
}

// signIn runs the sign-in prompt for the open sign-in surface. A successful
// sign-in releases the parked action; anything else discards it.
func (a *App) signIn(ctx context.Context) error {
	if err := a.auth.TriggerOneTap(ctx); err != nil {
		a.gate.Close()
		log.Printf("sign-in is unavailable: %v", err)
		return err
	}
	if !a.auth.IsAuthenticated() {
		a.gate.Close()
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	a.greet()
	a.gate.Success()
	return nil
}

func (a *App) greet() {
	if u := a.auth.User(); u != nil {
		fmt.Fprintf(a.out, "Signed in as %s\n", u.Email)
	}
}

// resumeIfGated runs the sign-in prompt when the last action was parked
// behind it.
func (a *App) resumeIfGated(ctx context.Context) error {
	if _, open := a.gate.Pending(); open {
		return a.signIn(ctx)
	}
	return nil
}

// Logout signs out. With "--purge" the durable session store is wiped as
// well.
func (a *App) Logout(ctx context.Context, args []string) error {
	purge := false
	for _, arg := range args {
		if arg != "--purge" {
			fmt.Fprintln(a.out, "Usage: logout [--purge]")
			return nil
		}
		purge = true
	}

	if err := a.auth.SignOut(ctx); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if purge && a.store != nil {
		if err := a.store.Clear(ctx); err != nil {
			log.Printf("error: %v", err)
			return err
		}
		fmt.Fprintln(a.out, "Local session data removed.")
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) WhoAmI(context.Context) error {
	u := a.auth.User()
	if u == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s>\nid: %s\nreputation: %d\n", u.FullName, u.Email, u.ID, u.Reputation)
	return nil
}
