package services

import (
	"sync"

	"github.com/dmitrijs2005/coursenotes/internal/client/models"
)

// Collection is the locally displayed list of notes. Server records are
// merged by identity.
type Collection struct {
	mu    sync.RWMutex
	notes []models.Note
}

func NewCollection(notes []models.Note) *Collection {
	return &Collection{notes: append([]models.Note(nil), notes...)}
}

func (c *Collection) Notes() []models.Note {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Note(nil), c.notes...)
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.notes)
}

func (c *Collection) Get(id string) (models.Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, n := range c.notes {
		if n.ID == id {
			return n, true
		}
	}
	return models.Note{}, false
}

func (c *Collection) Set(notes []models.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = append([]models.Note(nil), notes...)
}

// Prepend puts a new record first.
func (c *Collection) Prepend(n models.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = append([]models.Note{n}, c.notes...)
}

// Replace swaps the record with the same id and reports whether one existed.
func (c *Collection) Replace(n models.Note) bool {
	return c.Update(n.ID, func(*models.Note) {}, &n)
}

// Update edits the record with id in place. When with is non-nil the record
// is replaced by it first.
func (c *Collection) Update(id string, fn func(*models.Note), with *models.Note) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.notes {
		if c.notes[i].ID == id {
			if with != nil {
				c.notes[i] = *with
			}
			fn(&c.notes[i])
			return true
		}
	}
	return false
}

// Remove drops the record with id and reports whether one existed.
func (c *Collection) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.notes {
		if c.notes[i].ID == id {
			c.notes = append(c.notes[:i], c.notes[i+1:]...)
			return true
		}
	}
	return false
}
