package services

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/dmitrijs2005/coursenotes/internal/client/client"
	"github.com/dmitrijs2005/coursenotes/internal/client/models"
	"github.com/dmitrijs2005/coursenotes/internal/logging"
)

// DefaultPageSize is the number of notes Load fetches by default.
const DefaultPageSize = 12

// CatalogService holds the displayed note list, the active search filter and
// the per-note vote controllers.
type CatalogService struct {
	client   client.Client
	sink     DownloadSink
	coll     *Collection
	voteOpts []VoteOption
	log      logging.Logger

	mu     sync.Mutex
	filter string
	votes  map[string]*VoteController
}

// NewCatalogService returns an empty catalog. voteOpts apply to every vote
// controller it creates.
func NewCatalogService(c client.Client, sink DownloadSink, log logging.Logger, voteOpts ...VoteOption) *CatalogService {
	if log == nil {
		log = logging.Nop()
	}
	return &CatalogService{
		client:   c,
		sink:     sink,
		coll:     NewCollection(nil),
		voteOpts: voteOpts,
		log:      log,
		votes:    make(map[string]*VoteController),
	}
}

// Notes returns a copy of the displayed list.
func (s *CatalogService) Notes() []models.Note { return s.coll.Notes() }

// Filter returns the active search query, empty when none.
func (s *CatalogService) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *CatalogService) setFilter(q string) {
	s.mu.Lock()
	s.filter = q
	s.mu.Unlock()
}

// Load fetches the newest num notes (DefaultPageSize when num <= 0) and
// clears the search filter.
func (s *CatalogService) Load(ctx context.Context, num int) ([]models.Note, error) {
	if num <= 0 {
		num = DefaultPageSize
	}
	notes, err := s.client.ListNotes(ctx, num)
	if err != nil {
		return nil, err
	}
	s.refresh(notes)
	s.setFilter("")
	return s.coll.Notes(), nil
}

// Search replaces the list with the matches for query. An empty query loads
// the default page instead.
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Note, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return s.Load(ctx, DefaultPageSize)
	}
	notes, err := s.client.SearchNotes(ctx, q)
	if err != nil {
		return nil, err
	}
	s.refresh(notes)
	s.setFilter(q)
	return s.coll.Notes(), nil
}

// refresh replaces the list with server records. Idle vote controllers of
// those notes are dropped so the next vote starts from the fresh counts; a
// controller with a request in flight is kept and settles the list itself.
func (s *CatalogService) refresh(notes []models.Note) {
	s.coll.Set(notes)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range notes {
		if v, ok := s.votes[n.ID]; ok && !v.Busy() {
			delete(s.votes, n.ID)
		}
	}
}

// Get returns a note from the displayed list, falling back to the API.
func (s *CatalogService) Get(ctx context.Context, id string) (models.Note, error) {
	if n, ok := s.coll.Get(id); ok {
		return n, nil
	}
	n, err := s.client.GetNote(ctx, id)
	if err != nil {
		return models.Note{}, err
	}
	return *n, nil
}

// Uploaded merges a newly created note: it goes first and the active search
// filter is cleared so that it is visible.
func (s *CatalogService) Uploaded(n models.Note) {
	s.coll.Prepend(n)
	s.setFilter("")
}

// Updated replaces the edited note by id.
func (s *CatalogService) Updated(n models.Note) {
	s.coll.Replace(n)
	s.mu.Lock()
	delete(s.votes, n.ID)
	s.mu.Unlock()
}

// Deleted removes the note by id.
func (s *CatalogService) Deleted(id string) {
	s.coll.Remove(id)
	s.mu.Lock()
	delete(s.votes, id)
	s.mu.Unlock()
}

// Votes returns the vote controller of n, creating it on first use. The
// displayed list follows every vote state change.
func (s *CatalogService) Votes(n models.Note) *VoteController {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.votes[n.ID]; ok {
		return v
	}

	id := n.ID
	opts := append([]VoteOption{}, s.voteOpts...)
	opts = append(opts, WithVoteObserver(func(st models.VoteState) {
		s.coll.Update(id, func(note *models.Note) {
			note.Upvotes = st.Upvotes
			if st.Direction == models.VoteUpvote {
				up := true
				note.UserVote = &up
			} else {
				note.UserVote = nil
			}
		}, nil)
	}))

	v := NewVoteController(n, s.client, opts...)
	s.votes[id] = v
	return v
}

// Reset drops viewer-specific state after the session changed.
func (s *CatalogService) Reset() {
	s.mu.Lock()
	s.votes = make(map[string]*VoteController)
	s.mu.Unlock()
}

// Download records the download, fetches the file into the sink and bumps the
// displayed download counter. It returns where the file was stored.
func (s *CatalogService) Download(ctx context.Context, n models.Note) (string, error) {
	if s.sink == nil {
		return "", fmt.Errorf("download: no download sink configured")
	}
	if err := s.client.DownloadNote(ctx, n.ID); err != nil {
		return "", err
	}

	rc, err := s.client.FetchFile(ctx, n.FileURL)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	where, err := s.sink.Save(ctx, DownloadName(n), rc)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}

	s.coll.Update(n.ID, func(note *models.Note) { note.Downloads++ }, nil)
	s.log.Info(ctx, "note downloaded", "note", n.ID, "to", where)
	return where, nil
}

// DownloadName picks a local file name for n: the last path segment of its
// file URL when that is a PDF name, otherwise one derived from the course.
func DownloadName(n models.Note) string {
	if u, err := url.Parse(n.FileURL); err == nil {
		base := path.Base(u.Path)
		if strings.HasSuffix(strings.ToLower(base), ".pdf") {
			return base
		}
	}
	code := strings.ReplaceAll(strings.TrimSpace(n.CourseCode), " ", "")
	if code == "" {
		code = "note"
	}
	return code + "_" + n.ID + ".pdf"
}
