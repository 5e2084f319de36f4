package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNote_VoteState(t *testing.T) {
	up := true
	down := false

	tests := []struct {
		name string
		note Note
		want VoteState
	}{
		{name: "no vote", note: Note{Upvotes: 5}, want: VoteState{Direction: VoteNone, Upvotes: 5}},
		{name: "upvoted", note: Note{Upvotes: 6, UserVote: &up}, want: VoteState{Direction: VoteUpvote, Upvotes: 6}},
		{name: "legacy downvote is none", note: Note{Upvotes: 1, UserVote: &down}, want: VoteState{Direction: VoteNone, Upvotes: 1}},
		{name: "negative count floored", note: Note{Upvotes: -2}, want: VoteState{Direction: VoteNone, Upvotes: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.note.VoteState())
		})
	}
}

func TestNote_OwnedBy(t *testing.T) {
	n := Note{UploaderUser: User{ID: "u1"}}
	assert.True(t, n.OwnedBy(&User{ID: "u1"}))
	assert.False(t, n.OwnedBy(&User{ID: "u2"}))
	assert.False(t, n.OwnedBy(nil))
	assert.False(t, Note{}.OwnedBy(&User{}))
}

func TestNote_String(t *testing.T) {
	n := Note{ID: "n1", CourseCode: "CS21003", CourseName: "Algorithms", Semester: "Autumn"}
	assert.Equal(t, "n1  CS21003 - Algorithms (Autumn)", n.String())
}

func TestForm_AddGet(t *testing.T) {
	var f Form
	f.Add("course_name", "Algorithms")
	f.Add("course_code", "CS21003")

	v, ok := f.Get("course_code")
	assert.True(t, ok)
	assert.Equal(t, "CS21003", v)

	_, ok = f.Get("tags")
	assert.False(t, ok)
}

func TestSessionState_String(t *testing.T) {
	assert.Equal(t, "checking", StateChecking.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
	assert.Equal(t, "unauthenticated", StateUnauthenticated.String())
	assert.Equal(t, "unknown", StateUnknown.String())
}
