package navigator

import (
	"fmt"
	"sort"

	"github.com/agenthands/annex/internal/core/model"
)

const DefaultIndentUnit = 50

// Glyphs marking the direction a record was reached from its parent.
const (
	GlyphIn  = "←"
	GlyphOut = "→"
)

type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Chip is one clickable relationship of a record's link summary.
type Chip struct {
	Name      string          `json:"name"`
	Direction model.Direction `json:"direction"`
	Count     int             `json:"count"`
	Glyph     string          `json:"glyph"`
	Open      bool            `json:"open"`
}

type RenderedEntry struct {
	RecordID   int      `json:"record_id"`
	Indent     int      `json:"indent"`
	LinkGlyph  string   `json:"link_glyph,omitempty"`
	LinkName   string   `json:"link_name,omitempty"`
	Labels     []string `json:"labels"`
	Fields     []Field  `json:"fields"`
	Expanded   bool     `json:"expanded"`
	Waiting    bool     `json:"waiting"`
	CanHide    bool     `json:"can_hide"`
	Chips      []Chip   `json:"chips,omitempty"`
	HasSummary bool     `json:"has_summary"`
}

func DirectionGlyph(d model.Direction) string {
	switch d {
	case model.DirectionIn:
		return GlyphIn
	case model.DirectionOut:
		return GlyphOut
	default:
		return ""
	}
}

// Project derives the per-entry view of the current recordset.
func (n *Navigator) Project(indentUnit int) []RenderedEntry {
	if indentUnit <= 0 {
		indentUnit = DefaultIndentUnit
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]RenderedEntry, 0, n.store.Len())
	for pos := 0; pos < n.store.Len(); pos++ {
		e := n.store.At(pos)
		r := RenderedEntry{
			RecordID:   e.RecordID,
			Indent:     e.IndentLevel * indentUnit,
			LinkGlyph:  DirectionGlyph(e.ParentLinkDirection),
			LinkName:   e.ParentLinkName,
			Labels:     e.Payload.NodeLabels(),
			Fields:     projectFields(e.Payload),
			Expanded:   e.Expanded,
			Waiting:    n.pending[e.RecordID] != nil,
			CanHide:    true,
			HasSummary: e.LinkSummary != nil,
		}
		for _, item := range e.LinkSummary {
			open := len(n.store.FindChildren(e, pos, &LinkFilter{Name: item.Name, Direction: item.Direction})) > 0
			r.Chips = append(r.Chips, Chip{
				Name:      item.Name,
				Direction: item.Direction,
				Count:     item.Count,
				Glyph:     DirectionGlyph(item.Direction),
				Open:      open,
			})
		}
		out = append(out, r)
	}
	return out
}

func projectFields(p model.Payload) []Field {
	names := make([]string, 0, len(p))
	for k := range p {
		if k == model.FieldInternalID || k == model.FieldNodeLabels {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, k := range names {
		fields = append(fields, Field{Name: k, Value: fmt.Sprint(p[k])})
	}
	return fields
}
