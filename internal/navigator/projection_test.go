package navigator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/annex/internal/core/model"
)

func TestProject(t *testing.T) {
	n, _, a, _ := newScenario(t)
	ctx := context.Background()
	require.NoError(t, n.ToggleSummary(ctx, a))
	require.NoError(t, n.ToggleRelationship(ctx, a, "OWNS", model.DirectionIn, 2))

	view := n.Project(20)
	require.Len(t, view, 4)

	root := view[0]
	assert.Equal(t, 0, root.Indent)
	assert.Empty(t, root.LinkGlyph)
	assert.Equal(t, []string{"Note"}, root.Labels)
	assert.Equal(t, []Field{{Name: "name", Value: "A"}}, root.Fields)
	assert.True(t, root.Expanded)
	assert.True(t, root.HasSummary)
	assert.True(t, root.CanHide)
	assert.Equal(t, []Chip{
		{Name: "OWNS", Direction: model.DirectionIn, Count: 2, Glyph: GlyphIn, Open: true},
		{Name: "CITES", Direction: model.DirectionOut, Count: 1, Glyph: GlyphOut, Open: false},
	}, root.Chips)

	child := view[1]
	assert.Equal(t, 20, child.Indent)
	assert.Equal(t, GlyphIn, child.LinkGlyph)
	assert.Equal(t, "OWNS", child.LinkName)
	assert.False(t, child.HasSummary)
	assert.Empty(t, child.Chips)
}

func TestProject_DefaultIndentAndFieldOrder(t *testing.T) {
	n := New(newFakeGateway())
	n.SetNodes([]model.Payload{{
		model.FieldInternalID: int64(5),
		"title":               "Quotes",
		"author":              "Anon",
		"rank":                3,
	}})

	view := n.Project(0)
	require.Len(t, view, 1)
	assert.Equal(t, 0, view[0].Indent)
	assert.Equal(t, []Field{
		{Name: "author", Value: "Anon"},
		{Name: "rank", Value: "3"},
		{Name: "title", Value: "Quotes"},
	}, view[0].Fields)
	assert.Nil(t, view[0].Labels)
	assert.False(t, view[0].Waiting)
}

func TestDirectionGlyph(t *testing.T) {
	assert.Equal(t, GlyphIn, DirectionGlyph(model.DirectionIn))
	assert.Equal(t, GlyphOut, DirectionGlyph(model.DirectionOut))
	assert.Equal(t, "", DirectionGlyph(""))
}
