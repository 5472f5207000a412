package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/agenthands/annex/internal/core/model"
	"github.com/agenthands/annex/internal/driver"
)

// BoltGateway reads link data straight from the graph database.
type BoltGateway struct {
	Driver driver.GraphDriver
	logger *zap.Logger
}

func NewBoltGateway(d driver.GraphDriver, logger *zap.Logger) *BoltGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoltGateway{Driver: d, logger: logger}
}

func (g *BoltGateway) FetchLinkSummary(ctx context.Context, internalID int64) (items []model.LinkSummaryItem, err error) {
	start := time.Now()
	defer func() {
		observe(g.logger, "bolt", opLinkSummary, start, err, zap.Int64("internal_id", internalID))
	}()

	params := map[string]interface{}{"internal_id": internalID}

	in, err := g.countLinks(ctx, driver.InboundLinkSummaryQuery, params)
	if err != nil {
		return nil, fmt.Errorf("inbound link summary: %w", err)
	}
	out, err := g.countLinks(ctx, driver.OutboundLinkSummaryQuery, params)
	if err != nil {
		return nil, fmt.Errorf("outbound link summary: %w", err)
	}
	return summaryFromPairs(in, out), nil
}

func (g *BoltGateway) countLinks(ctx context.Context, query string, params map[string]interface{}) ([]namedCount, error) {
	result, err := g.Driver.ExecuteQuery(ctx, query, params)
	if err != nil {
		return nil, err
	}

	counts := make([]namedCount, 0, len(result.Records))
	for _, rec := range result.Records {
		name, _, err := neo4j.GetRecordValue[string](rec, "rel_name")
		if err != nil {
			return nil, err
		}
		count, _, err := neo4j.GetRecordValue[int64](rec, "rel_count")
		if err != nil {
			return nil, err
		}
		counts = append(counts, namedCount{name: name, count: int(count)})
	}
	return counts, nil
}

func (g *BoltGateway) FetchLinkedRecords(ctx context.Context, internalID int64, relName string, dir model.Direction) (records []model.Payload, err error) {
	start := time.Now()
	defer func() {
		observe(g.logger, "bolt", opLinkedRecords, start, err,
			zap.Int64("internal_id", internalID), zap.String("rel_name", relName), zap.String("dir", string(dir)))
	}()

	var query string
	switch dir {
	case model.DirectionIn:
		query = driver.InboundLinkedRecordsQuery
	case model.DirectionOut:
		query = driver.OutboundLinkedRecordsQuery
	default:
		return nil, fmt.Errorf("invalid link direction %q", dir)
	}

	result, err := g.Driver.ExecuteQuery(ctx, query, map[string]interface{}{
		"internal_id": internalID,
		"rel_name":    relName,
	})
	if err != nil {
		return nil, err
	}

	records = make([]model.Payload, 0, len(result.Records))
	for _, rec := range result.Records {
		p, err := payloadFromRecord(rec)
		if err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	return records, nil
}

// payloadFromRecord flattens node properties and adds internal_id and node_labels.
func payloadFromRecord(rec *neo4j.Record) (model.Payload, error) {
	id, _, err := neo4j.GetRecordValue[int64](rec, "internal_id")
	if err != nil {
		return nil, err
	}
	props, _, err := neo4j.GetRecordValue[map[string]any](rec, "props")
	if err != nil {
		return nil, err
	}
	rawLabels, _, err := neo4j.GetRecordValue[[]any](rec, "node_labels")
	if err != nil {
		return nil, err
	}

	p := make(model.Payload, len(props)+2)
	for k, v := range props {
		p[k] = v
	}
	labels := make([]string, 0, len(rawLabels))
	for _, l := range rawLabels {
		if s, ok := l.(string); ok {
			labels = append(labels, s)
		}
	}
	p[model.FieldInternalID] = id
	p[model.FieldNodeLabels] = labels
	return p, nil
}
