package models

import "strings"

// Note is a course-notes record as returned by the server.
type Note struct {
	ID              string   `json:"id"`
	CourseName      string   `json:"course_name"`
	CourseCode      string   `json:"course_code"`
	Description     string   `json:"description,omitempty"`
	ProfessorNames  []string `json:"professor_names,omitempty"`
	Tags            []string `json:"tags"`
	IsPublic        bool     `json:"is_public"`
	PreviewImageURL string   `json:"preview_image_url,omitempty"`
	FileURL         string   `json:"file_url"`
	UploaderUser    User     `json:"uploader_user"`
	CreatedAt       string   `json:"created_at"`
	Year            int      `json:"year"`
	Semester        string   `json:"semester"`
	Upvotes         int      `json:"upvotes"`
	Downvotes       int      `json:"downvotes"`
	UserVote        *bool    `json:"user_vote"`
	Downloads       int      `json:"downloads"`
}

// String renders a single catalog line.
func (n Note) String() string {
	var b strings.Builder
	b.WriteString(n.ID)
	b.WriteString("  ")
	b.WriteString(n.CourseCode)
	b.WriteString(" - ")
	b.WriteString(n.CourseName)
	if n.Semester != "" {
		b.WriteString(" (")
		b.WriteString(n.Semester)
		b.WriteString(")")
	}
	return b.String()
}

// VoteState derives the viewer's vote state from the server record.
func (n Note) VoteState() VoteState {
	d := VoteNone
	if n.UserVote != nil && *n.UserVote {
		d = VoteUpvote
	}
	count := n.Upvotes
	if count < 0 {
		count = 0
	}
	return VoteState{Direction: d, Upvotes: count}
}

// OwnedBy reports whether the note was uploaded by the given user.
func (n Note) OwnedBy(u *User) bool {
	return u != nil && n.UploaderUser.ID != "" && n.UploaderUser.ID == u.ID
}
