// Package models defines the client-side data models of the course-notes
// client: notes, users, votes, the auth session snapshot and submission forms.
package models
