// Package navigator implements the record navigator: a flat, indent-structured list of
// records that the user drills into by following graph links one relationship at a time.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/agenthands/annex/internal/core/model"
	"github.com/agenthands/annex/internal/gateway"
)

var (
	ErrMissingInternalID = errors.New("record has no internal_id")
	ErrNotExpanded       = errors.New("record is not expanded")
)

const DefaultDisplayCeiling = 100

type State string

const (
	StateCollapsed       State = "COLLAPSED"
	StateLoadingSummary  State = "LOADING_SUMMARY"
	StateSummaryShown    State = "SUMMARY_SHOWN"
	StateLoadingChildren State = "LOADING_CHILDREN"
	StateChildrenShown   State = "CHILDREN_SHOWN"
)

// Status is the user-visible status line. It is overwritten by every action.
type Status struct {
	Message string `json:"message"`
	IsError bool   `json:"is_error"`
	Warning string `json:"warning,omitempty"`
	Waiting bool   `json:"waiting"`
}

type inflight struct {
	summary int
	links   int
}

type Navigator struct {
	mu       sync.Mutex
	store    *Store
	gw       gateway.Gateway
	logger   *zap.Logger
	ceiling  int
	status   Status
	pending  map[int]*inflight
	nPending int
}

type Option func(*Navigator)

func WithLogger(l *zap.Logger) Option {
	return func(n *Navigator) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithDisplayCeiling sets the count above which a truncation warning is shown.
func WithDisplayCeiling(c int) Option {
	return func(n *Navigator) {
		if c > 0 {
			n.ceiling = c
		}
	}
}

func New(gw gateway.Gateway, opts ...Option) *Navigator {
	n := &Navigator{
		store:   NewStore(),
		gw:      gw,
		logger:  zap.NewNop(),
		ceiling: DefaultDisplayCeiling,
		pending: make(map[int]*inflight),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SetNodes replaces the whole recordset with one root per payload.
func (n *Navigator) SetNodes(payloads []model.Payload) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.store.Reset(payloads)
	n.logger.Debug("navigator reset", zap.Int("roots", len(payloads)))
}

// Entries returns a copy of the recordset in display order.
func (n *Navigator) Entries() []model.RecordEntry {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.store.Snapshot()
}

func (n *Navigator) Status() Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	st := n.status
	st.Waiting = n.nPending > 0
	return st
}

// State reports where the record is in its expansion lifecycle.
func (n *Navigator) State(recordID int) (State, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	pos, ok := n.store.FindByRecordID(recordID)
	if !ok {
		return "", fmt.Errorf("state of record %d: %w", recordID, ErrRecordNotFound)
	}
	if p := n.pending[recordID]; p != nil {
		if p.links > 0 {
			return StateLoadingChildren, nil
		}
		if p.summary > 0 {
			return StateLoadingSummary, nil
		}
	}
	if !n.store.At(pos).Expanded {
		return StateCollapsed, nil
	}
	if n.store.hasDescendants(pos) {
		return StateChildrenShown, nil
	}
	return StateSummaryShown, nil
}

// ToggleSummary collapses an expanded record (dropping all its descendants) or expands a
// collapsed one and fetches its link summary. A failed fetch leaves the record expanded
// with no summary.
func (n *Navigator) ToggleSummary(ctx context.Context, recordID int) error {
	n.mu.Lock()
	pos, ok := n.store.FindByRecordID(recordID)
	if !ok {
		err := fmt.Errorf("toggle summary of record %d: %w", recordID, ErrRecordNotFound)
		n.failLocked(err)
		n.mu.Unlock()
		return err
	}
	entry := n.store.At(pos)

	if entry.Expanded {
		n.store.removeLocated(Located{Pos: pos, Entry: entry}, false)
		entry.Expanded = false
		n.setStatusLocked("Record collapsed")
		n.mu.Unlock()
		return nil
	}

	internalID, ok := entry.Payload.InternalID()
	if !ok {
		err := fmt.Errorf("toggle summary of record %d: %w", recordID, ErrMissingInternalID)
		n.failLocked(err)
		n.mu.Unlock()
		return err
	}
	entry.Expanded = true
	n.beginLocked(recordID, func(p *inflight) { p.summary++ })
	n.mu.Unlock()

	summary, fetchErr := n.gw.FetchLinkSummary(ctx, internalID)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.endLocked(recordID, func(p *inflight) { p.summary-- })

	if fetchErr != nil {
		err := fmt.Errorf("link summary of record %d: %w", recordID, fetchErr)
		n.failLocked(err)
		return err
	}
	// The store may have changed while the request was out.
	pos, ok = n.store.FindByRecordID(recordID)
	if !ok {
		err := fmt.Errorf("link summary of record %d: %w", recordID, ErrRecordNotFound)
		n.failLocked(err)
		return err
	}
	entry = n.store.At(pos)
	if !entry.Expanded {
		n.setStatusLocked("Record collapsed; link summary discarded")
		return nil
	}
	entry.LinkSummary = summary
	n.setStatusLocked(fmt.Sprintf("Link summary retrieved (%d relationships)", len(summary)))
	return nil
}

// ToggleRelationship hides the children reached through (linkName, dir) when any are shown,
// otherwise fetches the linked records and inserts them below the record. The record must
// be expanded; a response arriving after it was collapsed is discarded.
func (n *Navigator) ToggleRelationship(ctx context.Context, recordID int, linkName string, dir model.Direction, expectedCount int) error {
	n.mu.Lock()
	pos, ok := n.store.FindByRecordID(recordID)
	if !ok {
		err := fmt.Errorf("toggle %s %s of record %d: %w", dir, linkName, recordID, ErrRecordNotFound)
		n.failLocked(err)
		n.mu.Unlock()
		return err
	}
	entry := n.store.At(pos)

	children := n.store.FindChildren(entry, pos, &LinkFilter{Name: linkName, Direction: dir})
	if len(children) > 0 {
		for i := len(children) - 1; i >= 0; i-- {
			n.store.removeLocated(children[i], true)
		}
		n.setStatusLocked(fmt.Sprintf("Hid %d linked records", len(children)))
		n.mu.Unlock()
		return nil
	}

	if !entry.Expanded {
		err := fmt.Errorf("toggle %s %s of record %d: %w", dir, linkName, recordID, ErrNotExpanded)
		n.failLocked(err)
		n.mu.Unlock()
		return err
	}
	internalID, ok := entry.Payload.InternalID()
	if !ok {
		err := fmt.Errorf("toggle %s %s of record %d: %w", dir, linkName, recordID, ErrMissingInternalID)
		n.failLocked(err)
		n.mu.Unlock()
		return err
	}

	warning := ""
	if expectedCount > n.ceiling {
		warning = fmt.Sprintf("%d linked records; only the first %d will be shown", expectedCount, n.ceiling)
		n.logger.Warn("linked records exceed display ceiling",
			zap.Int("record_id", recordID),
			zap.String("rel_name", linkName),
			zap.Int("expected", expectedCount),
			zap.Int("ceiling", n.ceiling))
	}
	n.status = Status{Message: "Retrieving linked records", Warning: warning}
	n.beginLocked(recordID, func(p *inflight) { p.links++ })
	n.mu.Unlock()

	records, fetchErr := n.gw.FetchLinkedRecords(ctx, internalID, linkName, dir)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.endLocked(recordID, func(p *inflight) { p.links-- })

	if fetchErr != nil {
		err := fmt.Errorf("linked records %s %s of record %d: %w", dir, linkName, recordID, fetchErr)
		n.failLocked(err)
		return err
	}
	// Re-locate by id: positions captured before the request may be stale.
	pos, ok = n.store.FindByRecordID(recordID)
	if !ok {
		err := fmt.Errorf("linked records %s %s of record %d: %w", dir, linkName, recordID, ErrRecordNotFound)
		n.failLocked(err)
		return err
	}
	if !n.store.At(pos).Expanded {
		n.setStatusLocked(fmt.Sprintf("Record collapsed; %d linked records discarded", len(records)))
		return nil
	}
	if err := n.store.InsertChildren(recordID, linkName, dir, records); err != nil {
		n.failLocked(err)
		return err
	}
	n.setStatusLocked(fmt.Sprintf("Retrieved %d linked records", len(records)))
	n.status.Warning = warning
	return nil
}

// HideRecord removes the record and everything nested below it.
func (n *Navigator) HideRecord(recordID int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.store.RemoveSubtree(recordID, true); err != nil {
		n.failLocked(err)
		return err
	}
	n.setStatusLocked("Record hidden")
	return nil
}

func (n *Navigator) beginLocked(recordID int, f func(*inflight)) {
	p := n.pending[recordID]
	if p == nil {
		p = &inflight{}
		n.pending[recordID] = p
	}
	f(p)
	n.nPending++
}

func (n *Navigator) endLocked(recordID int, f func(*inflight)) {
	if p := n.pending[recordID]; p != nil {
		f(p)
		if p.summary == 0 && p.links == 0 {
			delete(n.pending, recordID)
		}
	}
	n.nPending--
}

func (n *Navigator) setStatusLocked(msg string) {
	n.status = Status{Message: msg}
}

func (n *Navigator) failLocked(err error) {
	n.logger.Warn("navigator action failed", zap.Error(err))
	n.status = Status{Message: err.Error(), IsError: true}
}
