package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/dmitrijs2005/coursenotes/internal/client/models"
	"github.com/dmitrijs2005/coursenotes/internal/client/services"
)

// fillDraft walks the user through the form fields. Empty answers keep the
// current values, so a retry after a failure starts from the last draft.
func (a *App) fillDraft(sc *services.SubmissionController, mode services.Mode) error {
	d := sc.Draft()

	var err error
	if d.CourseName, err = GetWithDefault(a.reader, "Course name", d.CourseName, a.out); err != nil {
		return err
	}
	if d.CourseCode, err = GetWithDefault(a.reader, "Course code", d.CourseCode, a.out); err != nil {
		return err
	}
	if d.Year, err = GetInt(a.reader, "Year", d.Year, a.out); err != nil {
		return err
	}
	if d.Semester, err = GetWithDefault(a.reader, "Semester (Autumn/Spring)", d.Semester, a.out); err != nil {
		return err
	}
	if d.Description, err = GetWithDefault(a.reader, "Description (optional)", d.Description, a.out); err != nil {
		return err
	}
	if d.ProfessorNames, err = GetWithDefault(a.reader, "Professors, comma separated (optional)", d.ProfessorNames, a.out); err != nil {
		return err
	}
	if d.Tags, err = GetWithDefault(a.reader, "Tags, comma separated (optional)", d.Tags, a.out); err != nil {
		return err
	}
	sc.Edit(func(cur *services.Draft) {
		file := cur.File
		*cur = d
		cur.File = file
	})

	prompt := "PDF file path"
	if mode == services.ModeEdit {
		prompt = "New PDF file path (empty keeps the current file)"
	}
	current := ""
	if d.File != nil {
		current = d.File.Path
	}
	path, err := GetWithDefault(a.reader, prompt, current, a.out)
	if err != nil {
		return err
	}
	if path != "" && path != current {
		if err := sc.SelectFile(path); err != nil {
			fmt.Fprintln(a.out, err.Error())
		}
	}
	return nil
}

// reportSubmitError prints validation errors inline and logs the rest.
func (a *App) reportSubmitError(err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(a.out, verr.Message)
		return
	}
	log.Printf("error: %v", err)
}

// submit fills and sends the form until it succeeds or the user gives up.
func (a *App) submit(sc *services.SubmissionController, mode services.Mode, send func() (*models.Note, error)) (*models.Note, error) {
	for {
		if err := a.fillDraft(sc, mode); err != nil {
			return nil, err
		}
		n, err := send()
		if err == nil {
			return n, nil
		}
		a.reportSubmitError(err)
		if !Confirm(a.reader, "Try again?", a.out) {
			return nil, err
		}
	}
}

// Upload creates a note. A signed-out user is asked to sign in first and the
// form opens afterwards.
func (a *App) Upload(ctx context.Context) error {
	var err error
	ran := a.gate.RequireAuth("upload", func() { err = a.upload(ctx) })
	if !ran {
		if serr := a.signIn(ctx); serr != nil {
			return serr
		}
	}
	return err
}

func (a *App) upload(ctx context.Context) error {
	sc := services.NewSubmissionController(a.client, services.NewDraft(), a.log)
	n, err := a.submit(sc, services.ModeCreate, func() (*models.Note, error) { return sc.Create(ctx) })
	if err != nil {
		return err
	}
	a.catalog.Uploaded(*n)
	fmt.Fprintf(a.out, "Uploaded %s\n", n.String())
	return nil
}

// ownNote loads a note and checks that the signed-in user uploaded it.
func (a *App) ownNote(ctx context.Context, args []string, usage string) (models.Note, bool) {
	if !a.auth.IsAuthenticated() {
		fmt.Fprintln(a.out, "Please sign in first (type 'login').")
		return models.Note{}, false
	}
	n, ok := a.noteArg(ctx, args, usage)
	if !ok {
		return models.Note{}, false
	}
	if !n.OwnedBy(a.auth.User()) {
		fmt.Fprintln(a.out, "You can only change notes you uploaded.")
		return models.Note{}, false
	}
	return n, true
}

func (a *App) Edit(ctx context.Context, args []string) error {
	n, ok := a.ownNote(ctx, args, "edit <id>")
	if !ok {
		return nil
	}
	sc := services.NewSubmissionController(a.client, services.DraftFromNote(n), a.log)
	updated, err := a.submit(sc, services.ModeEdit, func() (*models.Note, error) { return sc.Update(ctx, n.ID) })
	if err != nil {
		return err
	}
	a.catalog.Updated(*updated)
	fmt.Fprintf(a.out, "Updated %s\n", updated.String())
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	n, ok := a.ownNote(ctx, args, "delete <id>")
	if !ok {
		return nil
	}
	if !Confirm(a.reader, fmt.Sprintf("Delete %s?", n.String()), a.out) {
		return nil
	}
	sc := services.NewSubmissionController(a.client, services.Draft{}, a.log)
	if err := sc.Delete(ctx, n.ID); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	a.catalog.Deleted(n.ID)
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}
