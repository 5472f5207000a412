package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayloadInternalID(t *testing.T) {
	cases := []struct {
		name    string
		payload Payload
		want    int64
		ok      bool
	}{
		{"bolt int64", Payload{FieldInternalID: int64(42)}, 42, true},
		{"json float", Payload{FieldInternalID: float64(7)}, 7, true},
		{"json number", Payload{FieldInternalID: json.Number("19")}, 19, true},
		{"fractional", Payload{FieldInternalID: 1.5}, 0, false},
		{"string", Payload{FieldInternalID: "12"}, 0, false},
		{"missing", Payload{"name": "x"}, 0, false},
		{"nil", Payload{FieldInternalID: nil}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.payload.InternalID()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPayloadNodeLabels(t *testing.T) {
	assert.Equal(t, []string{"Note"}, Payload{FieldNodeLabels: []string{"Note"}}.NodeLabels())
	assert.Equal(t, []string{"A", "B"}, Payload{FieldNodeLabels: []interface{}{"A", 3, "B"}}.NodeLabels())
	assert.Nil(t, Payload{}.NodeLabels())
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("in")
	assert.NoError(t, err)
	assert.Equal(t, DirectionIn, d)

	d, err = ParseDirection(" OUT ")
	assert.NoError(t, err)
	assert.Equal(t, DirectionOut, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}

func TestRecordEntryClone(t *testing.T) {
	e := RecordEntry{RecordID: 1, LinkSummary: []LinkSummaryItem{{Name: "OWNS", Direction: DirectionIn, Count: 2}}}
	c := e.Clone()
	c.LinkSummary[0].Count = 9
	assert.Equal(t, 2, e.LinkSummary[0].Count)
	assert.True(t, e.IsRoot())
}
