package navigator

import (
	"context"
	"sync"

	"github.com/agenthands/annex/internal/core/model"
)

type fakeEdge struct {
	from, to int64
	rel      string
}

// FakeGateway answers link queries from a small in-memory graph.
type FakeGateway struct {
	mu    sync.Mutex
	Nodes map[int64]model.Payload
	Edges []fakeEdge

	SummaryErr error
	RecordsErr error
	// Hook runs before every answer, outside the gateway lock.
	Hook func(op string, internalID int64)

	SummaryCalls int
	RecordsCalls int
}

func newFakeGateway() *FakeGateway {
	return &FakeGateway{Nodes: make(map[int64]model.Payload)}
}

func node(id int64, name string) model.Payload {
	return model.Payload{
		model.FieldInternalID: id,
		model.FieldNodeLabels: []string{"Note"},
		"name":                name,
	}
}

func (g *FakeGateway) add(p model.Payload) model.Payload {
	id, _ := p.InternalID()
	g.Nodes[id] = p
	return p
}

func (g *FakeGateway) link(from, to int64, rel string) {
	g.Edges = append(g.Edges, fakeEdge{from: from, to: to, rel: rel})
}

func (g *FakeGateway) FetchLinkSummary(ctx context.Context, internalID int64) ([]model.LinkSummaryItem, error) {
	if g.Hook != nil {
		g.Hook("summary", internalID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.SummaryCalls++
	if g.SummaryErr != nil {
		return nil, g.SummaryErr
	}

	var in, out []model.LinkSummaryItem
	bump := func(items []model.LinkSummaryItem, rel string, dir model.Direction) []model.LinkSummaryItem {
		for i := range items {
			if items[i].Name == rel {
				items[i].Count++
				return items
			}
		}
		return append(items, model.LinkSummaryItem{Name: rel, Direction: dir, Count: 1})
	}
	for _, e := range g.Edges {
		if e.to == internalID {
			in = bump(in, e.rel, model.DirectionIn)
		}
		if e.from == internalID {
			out = bump(out, e.rel, model.DirectionOut)
		}
	}
	return append(append([]model.LinkSummaryItem{}, in...), out...), nil
}

func (g *FakeGateway) FetchLinkedRecords(ctx context.Context, internalID int64, relName string, dir model.Direction) ([]model.Payload, error) {
	if g.Hook != nil {
		g.Hook("records", internalID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.RecordsCalls++
	if g.RecordsErr != nil {
		return nil, g.RecordsErr
	}

	var out []model.Payload
	for _, e := range g.Edges {
		if e.rel != relName {
			continue
		}
		if dir == model.DirectionOut && e.from == internalID {
			out = append(out, g.Nodes[e.to])
		}
		if dir == model.DirectionIn && e.to == internalID {
			out = append(out, g.Nodes[e.from])
		}
	}
	return out, nil
}

func (g *FakeGateway) calls() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.SummaryCalls, g.RecordsCalls
}

func (g *FakeGateway) setRecordsErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.RecordsErr = err
}

// recordIDs lists record ids in store order.
func recordIDs(entries []model.RecordEntry) []int {
	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.RecordID
	}
	return ids
}

// names lists the "name" field of each entry in store order.
func names(entries []model.RecordEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i], _ = e.Payload["name"].(string)
	}
	return out
}
