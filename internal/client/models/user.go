package models

// User is the authenticated identity returned by the server. It is an
// immutable snapshot: re-authentication replaces it wholesale.
type User struct {
	ID         string `json:"id"`
	GoogleID   string `json:"google_id"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Reputation int    `json:"reputation"`
	CreatedAt  string `json:"created_at"`
	Picture    string `json:"picture"`
}

// LeaderboardEntry is one row of the reputation leaderboard.
type LeaderboardEntry struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Picture        string `json:"picture"`
	Reputation     int    `json:"reputation"`
	TotalNotes     int    `json:"total_notes"`
	TotalUpvotes   int    `json:"total_upvotes"`
	TotalDownloads int    `json:"total_downloads"`
	Rank           int    `json:"rank"`
}

// Profile combines a user's leaderboard stats with their uploaded notes.
// Stats is nil when the position lookup failed.
type Profile struct {
	UserID string
	Stats  *LeaderboardEntry
	Notes  []Note
}
