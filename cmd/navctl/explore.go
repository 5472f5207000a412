package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agenthands/annex/internal/core/model"
	"github.com/agenthands/annex/internal/gateway"
	"github.com/agenthands/annex/internal/navigator"
	"github.com/agenthands/annex/internal/render"
)

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid internal id %q: %w", a, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func newExploreCmd() *cobra.Command {
	var (
		depth     int
		maxFields int
	)
	cmd := &cobra.Command{
		Use:   "explore <internal_id>...",
		Short: "Open the links of one or more records to the given depth and print the tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if depth < 1 || depth > cfg.Navigator.MaxExpandDepth {
				return fmt.Errorf("--depth must be between 1 and %d", cfg.Navigator.MaxExpandDepth)
			}
			ctx := cmd.Context()
			gw, closeGateway, err := gateway.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeGateway()

			nav := navigator.New(gw,
				navigator.WithLogger(logger),
				navigator.WithDisplayCeiling(cfg.Navigator.DisplayCeiling))
			roots := make([]model.Payload, len(ids))
			for i, id := range ids {
				roots[i] = model.Payload{model.FieldInternalID: id}
			}
			nav.SetNodes(roots)

			var errs []error
			for _, e := range nav.Entries() {
				if err := nav.ExpandDepth(ctx, e.RecordID, depth); err != nil {
					errs = append(errs, err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, render.Tree(nav.Project(2), render.Options{MaxFields: maxFields}))
			if line := render.StatusLine(nav.Status()); line != "" {
				fmt.Fprintln(out, line)
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 1, "number of link levels to open")
	cmd.Flags().IntVar(&maxFields, "max-fields", 4, "fields printed per record (0 for all)")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <internal_id>",
		Short: "Print the relationships of a record with their counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			gw, closeGateway, err := gateway.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeGateway()

			items, err := gw.FetchLinkSummary(cmd.Context(), ids[0])
			if err != nil {
				return err
			}
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-30s %6d\n", navigator.DirectionGlyph(it.Direction), it.Name, it.Count)
			}
			return nil
		},
	}
}
