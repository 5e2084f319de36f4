package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/coursenotes/internal/client/client"
	"github.com/dmitrijs2005/coursenotes/internal/client/models"
	"github.com/dmitrijs2005/coursenotes/internal/common"
	"github.com/dmitrijs2005/coursenotes/internal/logging"
	"github.com/gabriel-vasile/mimetype"
)

const (
	SemesterAutumn = "Autumn"
	SemesterSpring = "Spring"

	pdfMIME = "application/pdf"
)

// Mode selects create or edit validation rules.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// ValidationError is a client-side form check failure. Message is shown
// inline next to Field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Draft is the upload/edit form state. ProfessorNames and Tags are free text
// (comma separated) as typed by the user.
type Draft struct {
	CourseName     string
	CourseCode     string
	Year           int
	Semester       string
	Description    string
	ProfessorNames string
	Tags           string
	File           *models.Attachment
}

// NewDraft returns an empty create form for the current year.
func NewDraft() Draft {
	return Draft{Year: time.Now().Year(), Semester: SemesterAutumn}
}

// DraftFromNote pre-fills an edit form. The file is left empty, meaning
// "keep the existing file".
func DraftFromNote(n models.Note) Draft {
	d := Draft{
		CourseName:     n.CourseName,
		CourseCode:     n.CourseCode,
		Year:           n.Year,
		Semester:       n.Semester,
		Description:    n.Description,
		ProfessorNames: strings.Join(n.ProfessorNames, ", "),
		Tags:           strings.Join(n.Tags, ", "),
	}
	if d.Year == 0 {
		d.Year = time.Now().Year()
	}
	if d.Semester == "" {
		d.Semester = SemesterAutumn
	}
	return d
}

// Validate runs the client-side checks for mode.
func (d Draft) Validate(mode Mode) error {
	if strings.TrimSpace(d.CourseName) == "" {
		return &ValidationError{Field: "course_name", Message: "Course name is required"}
	}
	if strings.TrimSpace(d.CourseCode) == "" {
		return &ValidationError{Field: "course_code", Message: "Course code is required"}
	}
	if mode == ModeCreate && d.File == nil {
		return &ValidationError{Field: "file", Message: "Please select a PDF file"}
	}
	if d.Semester != SemesterAutumn && d.Semester != SemesterSpring {
		return &ValidationError{Field: "semester", Message: "Semester must be Autumn or Spring"}
	}
	if d.Year <= 0 {
		return &ValidationError{Field: "year", Message: "Year is required"}
	}
	return nil
}

// Form packages the draft as multipart fields. Optional fields are sent only
// when non-empty after trimming.
func (d Draft) Form() *models.Form {
	f := &models.Form{File: d.File}
	f.Add("course_name", strings.TrimSpace(d.CourseName))
	f.Add("course_code", strings.TrimSpace(d.CourseCode))
	f.Add("year", strconv.Itoa(d.Year))
	f.Add("semester", d.Semester)
	if v := strings.TrimSpace(d.Description); v != "" {
		f.Add("description", v)
	}
	if v := strings.TrimSpace(d.ProfessorNames); v != "" {
		f.Add("professor_names", v)
	}
	if v := strings.TrimSpace(d.Tags); v != "" {
		f.Add("tags", v)
	}
	return f
}

// DetectPDF sniffs the file at path and returns an attachment when it is a
// PDF. Anything else yields common.ErrNotPDF.
func DetectPDF(path string) (*models.Attachment, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("select file: %w", err)
	}
	if fi.IsDir() {
		return nil, common.ErrNotPDF
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("select file: %w", err)
	}
	if !mt.Is(pdfMIME) {
		return nil, common.ErrNotPDF
	}

	return &models.Attachment{
		Path:        path,
		Name:        filepath.Base(path),
		ContentType: pdfMIME,
		Size:        fi.Size(),
	}, nil
}

// SubmissionController drives one upload or edit form. Failed submissions
// keep the draft so the user can retry without re-entering it.
type SubmissionController struct {
	client client.Client
	log    logging.Logger

	mu    sync.Mutex
	draft Draft
	err   error
}

// NewSubmissionController starts from draft.
func NewSubmissionController(c client.Client, draft Draft, log logging.Logger) *SubmissionController {
	if log == nil {
		log = logging.Nop()
	}
	return &SubmissionController{client: c, draft: draft, log: log}
}

// Draft returns a copy of the current form state.
func (s *SubmissionController) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Edit mutates the draft in place.
func (s *SubmissionController) Edit(fn func(d *Draft)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.draft)
}

// Err is the inline error of the last failed action, nil after a success.
func (s *SubmissionController) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *SubmissionController) setErr(err error) error {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	return err
}

// SelectFile attaches the file at path. A non-PDF is rejected at once and the
// previous attachment stays in place.
func (s *SubmissionController) SelectFile(path string) error {
	a, err := DetectPDF(path)
	if err != nil {
		if errors.Is(err, common.ErrNotPDF) {
			return s.setErr(&ValidationError{Field: "file", Message: "Only PDF files are supported"})
		}
		return s.setErr(err)
	}

	s.mu.Lock()
	s.draft.File = a
	s.err = nil
	s.mu.Unlock()
	return nil
}

// Create validates and uploads the draft. On success the draft resets.
func (s *SubmissionController) Create(ctx context.Context) (*models.Note, error) {
	d := s.Draft()
	if err := d.Validate(ModeCreate); err != nil {
		return nil, s.setErr(err)
	}

	n, err := s.client.UploadNote(ctx, d.Form())
	if err != nil {
		s.log.Error(ctx, "upload failed", "course", d.CourseCode, "error", err)
		return nil, s.setErr(err)
	}

	s.mu.Lock()
	s.draft = NewDraft()
	s.err = nil
	s.mu.Unlock()
	return n, nil
}

// Update validates and sends the draft as an edit of note id. Without a file
// the server keeps the existing one.
func (s *SubmissionController) Update(ctx context.Context, id string) (*models.Note, error) {
	d := s.Draft()
	if err := d.Validate(ModeEdit); err != nil {
		return nil, s.setErr(err)
	}

	n, err := s.client.UpdateNote(ctx, id, d.Form())
	if err != nil {
		s.log.Error(ctx, "update failed", "note", id, "error", err)
		return nil, s.setErr(err)
	}
	_ = s.setErr(nil)
	return n, nil
}

// Delete removes note id.
func (s *SubmissionController) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteNote(ctx, id); err != nil {
		s.log.Error(ctx, "delete failed", "note", id, "error", err)
		return s.setErr(err)
	}
	_ = s.setErr(nil)
	return nil
}
