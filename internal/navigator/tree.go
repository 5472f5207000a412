package navigator

import "github.com/agenthands/annex/internal/core/model"

// Located pairs an entry with the position it had when it was found.
type Located struct {
	Pos   int
	Entry *model.RecordEntry
}

// LinkFilter restricts FindChildren to children reached through one relationship.
type LinkFilter struct {
	Name      string
	Direction model.Direction
}

// FindByRecordID returns the position of the entry with the given record id.
func (s *Store) FindByRecordID(id int) (int, bool) {
	for i, e := range s.entries {
		if e.RecordID == id {
			return i, true
		}
	}
	return -1, false
}

// FindChildren returns the immediate children of entry (located at pos), in store order.
// The scan stops at the first following entry whose indent is not deeper than entry's:
// nothing past that point can descend from it.
func (s *Store) FindChildren(entry *model.RecordEntry, pos int, filter *LinkFilter) []Located {
	var children []Located
	for i := pos + 1; i < len(s.entries); i++ {
		e := s.entries[i]
		if e.IndentLevel <= entry.IndentLevel {
			break
		}
		if e.ParentRecordID != entry.RecordID {
			continue
		}
		if filter != nil && (e.ParentLinkName != filter.Name || e.ParentLinkDirection != filter.Direction) {
			continue
		}
		children = append(children, Located{Pos: i, Entry: e})
	}
	return children
}

// hasDescendants reports whether the entry at pos has anything nested below it.
func (s *Store) hasDescendants(pos int) bool {
	return pos+1 < len(s.entries) && s.entries[pos+1].IndentLevel > s.entries[pos].IndentLevel
}
