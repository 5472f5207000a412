package navigator

import (
	"context"
	"errors"
	"fmt"

	"github.com/agenthands/annex/internal/core/model"
)

// ExpandDepth opens the record's link summary and every relationship on it, then repeats
// for the inserted children until depth levels have been opened. Relationships already
// shown are left open and descended into. Failures on one branch do not stop the others.
func (n *Navigator) ExpandDepth(ctx context.Context, recordID, depth int) error {
	if depth <= 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	expanded, summary, err := n.summaryOf(recordID)
	if err != nil {
		return err
	}
	if !expanded {
		if err := n.ToggleSummary(ctx, recordID); err != nil {
			return err
		}
		if _, summary, err = n.summaryOf(recordID); err != nil {
			return err
		}
	}

	var errs []error
	for _, item := range summary {
		filter := &LinkFilter{Name: item.Name, Direction: item.Direction}
		ids, err := n.childIDs(recordID, filter)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			if err := n.ToggleRelationship(ctx, recordID, item.Name, item.Direction, item.Count); err != nil {
				errs = append(errs, err)
				continue
			}
			if ids, err = n.childIDs(recordID, filter); err != nil {
				return err
			}
		}
		for _, id := range ids {
			if err := n.ExpandDepth(ctx, id, depth-1); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (n *Navigator) summaryOf(recordID int) (bool, []model.LinkSummaryItem, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	pos, ok := n.store.FindByRecordID(recordID)
	if !ok {
		return false, nil, fmt.Errorf("expand record %d: %w", recordID, ErrRecordNotFound)
	}
	e := n.store.At(pos).Clone()
	return e.Expanded, e.LinkSummary, nil
}

func (n *Navigator) childIDs(recordID int, filter *LinkFilter) ([]int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	pos, ok := n.store.FindByRecordID(recordID)
	if !ok {
		return nil, fmt.Errorf("children of record %d: %w", recordID, ErrRecordNotFound)
	}
	children := n.store.FindChildren(n.store.At(pos), pos, filter)
	ids := make([]int, len(children))
	for i, c := range children {
		ids[i] = c.Entry.RecordID
	}
	return ids, nil
}
