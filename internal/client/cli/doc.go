// Package cli provides the interactive course-notes command-line client.
//
// It wires the session manager, the sign-in coordinator, the notes catalog
// and the user service into a REPL. Typical flow: verify the stored session,
// offer the one-tap sign-in prompt when nobody is signed in, then execute
// user commands.
//
// Key features:
//   - Login / Logout / WhoAmI
//   - List, search and show notes; vote and download
//   - Upload, edit and delete own notes
//   - Leaderboard and user profiles
//
// Actions that need a signed-in user (vote, upload) open the sign-in prompt
// and resume once the user has signed in.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
