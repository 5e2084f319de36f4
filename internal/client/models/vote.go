package models

// VoteType is the wire value of the vote_type query parameter.
type VoteType string

const (
	VoteTypeUpvote VoteType = "upvote"
	VoteTypeRemove VoteType = "remove"
)

// VoteDirection is the viewer's current vote on a note.
type VoteDirection string

const (
	VoteNone   VoteDirection = ""
	VoteUpvote VoteDirection = "upvote"
)

// VoteState is the locally displayed vote state of one note for one viewer.
// Upvotes is never negative.
type VoteState struct {
	Direction VoteDirection
	Upvotes   int
}

// Vote is the server-side vote record. Successful vote calls may return no body.
type Vote struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	NoteID    string  `json:"note_id"`
	IsUpvote  bool    `json:"is_upvote"`
	CreatedAt *string `json:"created_at"`
}
