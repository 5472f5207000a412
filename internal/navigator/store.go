package navigator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/agenthands/annex/internal/core/model"
	"github.com/agenthands/annex/internal/metrics"
)

var ErrRecordNotFound = errors.New("record not found")

// Store is the ordered recordset: a flattened pre-order walk of a forest in which
// the indent level is the only structural signal. It is not safe for concurrent use.
type Store struct {
	entries []*model.RecordEntry
	nextID  int
}

func NewStore() *Store {
	return &Store{nextID: 1}
}

func (s *Store) Len() int {
	return len(s.entries)
}

// At returns the entry at position pos. Positions are only valid until the next mutation.
func (s *Store) At(pos int) *model.RecordEntry {
	return s.entries[pos]
}

// Snapshot copies the current entries in store order.
func (s *Store) Snapshot() []model.RecordEntry {
	out := make([]model.RecordEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Clone()
	}
	return out
}

func (s *Store) allocateID() int {
	id := s.nextID
	s.nextID++
	return id
}

// Reset discards every entry and appends one root per payload, in input order.
// The identity counter keeps running so record ids are never reused.
func (s *Store) Reset(payloads []model.Payload) {
	metrics.RecordsRemoved.Add(float64(len(s.entries)))

	s.entries = make([]*model.RecordEntry, 0, len(payloads))
	for _, p := range payloads {
		s.entries = append(s.entries, &model.RecordEntry{
			RecordID: s.allocateID(),
			Payload:  p,
		})
	}
	metrics.RecordsInserted.Add(float64(len(payloads)))
}

// InsertChildren places one child entry per payload directly below the parent,
// as a contiguous block in input order.
func (s *Store) InsertChildren(parentID int, linkName string, dir model.Direction, payloads []model.Payload) error {
	pos, ok := s.FindByRecordID(parentID)
	if !ok {
		return fmt.Errorf("insert children under record %d: %w", parentID, ErrRecordNotFound)
	}
	parent := s.entries[pos]

	block := make([]*model.RecordEntry, 0, len(payloads))
	for _, p := range payloads {
		block = append(block, &model.RecordEntry{
			RecordID:            s.allocateID(),
			ParentRecordID:      parent.RecordID,
			ParentLinkName:      linkName,
			ParentLinkDirection: dir,
			IndentLevel:         parent.IndentLevel + 1,
			Payload:             p,
		})
	}
	s.entries = slices.Insert(s.entries, pos+1, block...)
	metrics.RecordsInserted.Add(float64(len(block)))
	return nil
}

// RemoveSubtree removes every descendant of targetID and, when removeSelf is set, the target itself.
func (s *Store) RemoveSubtree(targetID int, removeSelf bool) error {
	pos, ok := s.FindByRecordID(targetID)
	if !ok {
		return fmt.Errorf("remove subtree of record %d: %w", targetID, ErrRecordNotFound)
	}
	s.removeLocated(Located{Pos: pos, Entry: s.entries[pos]}, removeSelf)
	return nil
}

// removeLocated walks the subtree in postorder starting from the last child, so every
// removal hits the last unprocessed element and the cached positions of the
// remaining children stay valid.
func (s *Store) removeLocated(target Located, removeSelf bool) {
	children := s.FindChildren(target.Entry, target.Pos, nil)
	for i := len(children) - 1; i >= 0; i-- {
		s.removeLocated(children[i], true)
	}
	if removeSelf {
		s.entries = slices.Delete(s.entries, target.Pos, target.Pos+1)
		metrics.RecordsRemoved.Inc()
	}
}
