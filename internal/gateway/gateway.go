// Package gateway fetches link metadata and linked records for the navigator.
package gateway

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/annex/internal/core/model"
	"github.com/agenthands/annex/internal/metrics"
)

// ErrServer is returned when the data source answered but reported a failure.
var ErrServer = errors.New("server reported an error")

const (
	opLinkSummary   = "link_summary"
	opLinkedRecords = "linked_records"
)

type Gateway interface {
	// FetchLinkSummary lists the relationships touching a node with their counts.
	FetchLinkSummary(ctx context.Context, internalID int64) ([]model.LinkSummaryItem, error)
	// FetchLinkedRecords returns the records reached from a node through one relationship, in server order.
	FetchLinkedRecords(ctx context.Context, internalID int64, relName string, dir model.Direction) ([]model.Payload, error)
}

// observe records metrics and a debug/warn line for one gateway call.
func observe(logger *zap.Logger, gateway, op string, start time.Time, err error, fields ...zap.Field) {
	elapsed := time.Since(start)
	metrics.GatewayRequestDuration.WithLabelValues(gateway, op).Observe(elapsed.Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.GatewayRequestsTotal.WithLabelValues(gateway, op, status).Inc()

	fields = append(fields, zap.String("gateway", gateway), zap.String("operation", op), zap.Duration("elapsed", elapsed))
	if err != nil {
		logger.Warn("gateway request failed", append(fields, zap.Error(err))...)
		return
	}
	logger.Debug("gateway request completed", fields...)
}

// summaryFromPairs tags (name, count) pairs with their direction, inbound first.
func summaryFromPairs(in, out []namedCount) []model.LinkSummaryItem {
	items := make([]model.LinkSummaryItem, 0, len(in)+len(out))
	for _, p := range in {
		items = append(items, model.LinkSummaryItem{Name: p.name, Direction: model.DirectionIn, Count: p.count})
	}
	for _, p := range out {
		items = append(items, model.LinkSummaryItem{Name: p.name, Direction: model.DirectionOut, Count: p.count})
	}
	return items
}

type namedCount struct {
	name  string
	count int
}
