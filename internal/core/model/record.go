package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Payload field names every record coming from the data source carries.
const (
	FieldInternalID = "internal_id"
	FieldNodeLabels = "node_labels"
)

type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// ParseDirection accepts "IN"/"OUT" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(DirectionIn):
		return DirectionIn, nil
	case string(DirectionOut):
		return DirectionOut, nil
	default:
		return "", fmt.Errorf("invalid link direction %q (expected IN or OUT)", s)
	}
}

// Payload is the raw field map of one record as returned by the data source.
type Payload map[string]interface{}

// InternalID returns the external node identifier of the record.
// JSON decoding yields float64 and the bolt driver yields int64, both are accepted.
func (p Payload) InternalID() (int64, bool) {
	v, ok := p[FieldInternalID]
	if !ok || v == nil {
		return 0, false
	}
	switch id := v.(type) {
	case int64:
		return id, true
	case int:
		return int64(id), true
	case int32:
		return int64(id), true
	case float64:
		if id != math.Trunc(id) {
			return 0, false
		}
		return int64(id), true
	case json.Number:
		n, err := id.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

// NodeLabels returns the labels/tags of the record, or nil when absent.
func (p Payload) NodeLabels() []string {
	switch labels := p[FieldNodeLabels].(type) {
	case []string:
		return labels
	case []interface{}:
		out := make([]string, 0, len(labels))
		for _, l := range labels {
			if s, ok := l.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// LinkSummaryItem is one (relationship name, direction, count) triple.
type LinkSummaryItem struct {
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	Count     int       `json:"count"`
}

// RecordEntry is one row of the navigator: a record plus its navigation metadata.
// ParentRecordID is 0 for root entries; record ids start at 1.
type RecordEntry struct {
	RecordID            int               `json:"record_id"`
	ParentRecordID      int               `json:"parent_record_id,omitempty"`
	ParentLinkName      string            `json:"parent_link_name,omitempty"`
	ParentLinkDirection Direction         `json:"parent_link_direction,omitempty"`
	IndentLevel         int               `json:"indent_level"`
	Expanded            bool              `json:"expanded"`
	LinkSummary         []LinkSummaryItem `json:"link_summary"`
	Payload             Payload           `json:"payload"`
}

func (e *RecordEntry) IsRoot() bool {
	return e.ParentRecordID == 0
}

// Clone returns a copy that shares no slices with the receiver.
// The payload map itself is shared; it is never mutated after creation.
func (e *RecordEntry) Clone() RecordEntry {
	c := *e
	if e.LinkSummary != nil {
		c.LinkSummary = append([]LinkSummaryItem(nil), e.LinkSummary...)
	}
	return c
}
