package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/coursenotes/internal/client/client"
	"github.com/dmitrijs2005/coursenotes/internal/client/models"
	"github.com/dmitrijs2005/coursenotes/internal/client/optimistic"
	"github.com/dmitrijs2005/coursenotes/internal/common"
	"github.com/dmitrijs2005/coursenotes/internal/logging"
)

// VoteFailedMessage is the notice shown after a rolled-back vote.
const VoteFailedMessage = "Failed to vote. Please try again."

var ErrVoteInFlight = common.ErrVoteInFlight

// Gate defers actions until a user is signed in. signin.Coordinator is one.
type Gate interface {
	RequireAuth(name string, action func()) bool
}

// VoteController owns the displayed vote state of one note for the viewer.
// At most one vote request per note is in flight.
type VoteController struct {
	noteID string
	client client.Client
	gate   Gate
	notify func(msg string)
	log    logging.Logger

	mu       sync.Mutex
	state    models.VoteState
	busy     bool
	onChange func(models.VoteState)
}

// VoteOption configures a VoteController.
type VoteOption func(*VoteController)

// WithVoteGate sends signed-out votes through g.
func WithVoteGate(g Gate) VoteOption {
	return func(v *VoteController) { v.gate = g }
}

// WithVoteNotifier sets the user-visible failure notice sink.
func WithVoteNotifier(fn func(msg string)) VoteOption {
	return func(v *VoteController) { v.notify = fn }
}

// WithVoteObserver is called with every displayed state change.
func WithVoteObserver(fn func(models.VoteState)) VoteOption {
	return func(v *VoteController) { v.onChange = fn }
}

// WithVoteLogger sets the controller logger.
func WithVoteLogger(l logging.Logger) VoteOption {
	return func(v *VoteController) { v.log = l }
}

// NewVoteController seeds a controller from the server state of note.
func NewVoteController(note models.Note, c client.Client, opts ...VoteOption) *VoteController {
	v := &VoteController{
		noteID: note.ID,
		client: c,
		state:  note.VoteState(),
		log:    logging.Nop(),
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// State returns the displayed vote state.
func (v *VoteController) State() models.VoteState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Busy reports whether a vote request is in flight.
func (v *VoteController) Busy() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.busy
}

// nextVote computes the optimistic transition for a requested direction.
// Requesting the held direction removes the vote. An empty vote type means
// there is nothing to send.
func nextVote(cur models.VoteState, want models.VoteDirection) (models.VoteState, models.VoteType) {
	if want == models.VoteNone || want == cur.Direction {
		if cur.Direction == models.VoteNone {
			return cur, ""
		}
		count := cur.Upvotes - 1
		if count < 0 {
			count = 0
		}
		return models.VoteState{Direction: models.VoteNone, Upvotes: count}, models.VoteTypeRemove
	}
	return models.VoteState{Direction: models.VoteUpvote, Upvotes: cur.Upvotes + 1}, models.VoteTypeUpvote
}

// Vote applies the vote locally and sends it. A signed-out viewer is sent
// through the gate and the whole sequence resumes after sign-in. On failure
// the pre-click state is restored and the viewer is notified.
func (v *VoteController) Vote(ctx context.Context, want models.VoteDirection) error {
	if v.Busy() {
		return ErrVoteInFlight
	}

	if v.gate != nil {
		var err error
		ran := v.gate.RequireAuth("vote", func() { err = v.vote(ctx, want) })
		if !ran {
			v.log.Debug(ctx, "vote deferred until sign-in", "note", v.noteID)
			return nil
		}
		return err
	}
	return v.vote(ctx, want)
}

func (v *VoteController) set(s models.VoteState) {
	v.mu.Lock()
	v.state = s
	fn := v.onChange
	v.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

func (v *VoteController) vote(ctx context.Context, want models.VoteDirection) error {
	v.mu.Lock()
	if v.busy {
		v.mu.Unlock()
		return ErrVoteInFlight
	}
	snapshot := v.state
	target, voteType := nextVote(snapshot, want)
	if voteType == "" {
		v.mu.Unlock()
		return nil
	}
	v.busy = true
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		v.busy = false
		v.mu.Unlock()
	}()

	err := optimistic.Do(ctx, optimistic.Tx{
		Apply: func() { v.set(target) },
		Commit: func(ctx context.Context) error {
			_, err := v.client.Vote(ctx, v.noteID, voteType)
			return err
		},
		Revert: func() { v.set(snapshot) },
	})
	if err != nil {
		v.log.Error(ctx, "vote failed", "note", v.noteID, "type", string(voteType), "error", err)
		if v.notify != nil {
			v.notify(VoteFailedMessage)
		}
		return fmt.Errorf("vote: %w", err)
	}
	return nil
}
