package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/dispatch"
	"github.com/gogpu/dwgdraw/internal/catalog"
	"github.com/gogpu/dwgdraw/internal/fixture"
	"github.com/gogpu/dwgdraw/internal/sink"
)

var replayCmd = &cobra.Command{
	Use:   "replay <fixture.yaml>",
	Short: "Draw a fixture and summarize the records per block",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	f := replayCmd.Flags()
	f.Bool("walk", false, "Replay the fixture as a traversal event stream instead of drawables")
	f.Bool("metrics", false, "Print the dispatcher counters")
	f.Bool("categories", true, "Assign per-layer display categories")
	f.String("sqlite", "", "Store the records in this SQLite database")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	cfgPath, _ := flags.GetString("config")
	walk, _ := flags.GetBool("walk")
	showMetrics, _ := flags.GetBool("metrics")
	useCategories, _ := flags.GetBool("categories")
	dbPath, _ := flags.GetString("sqlite")

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	opts, err := cfg.options()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	fx, err := fixture.LoadFile(args[0])
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	opts = append(opts, dispatch.WithMetrics(dispatch.NewMetrics(reg)))
	var cat *catalog.Catalog
	if useCategories {
		cat = catalog.New(fx.DB)
		opts = append(opts, dispatch.WithCategories(cat))
	}

	d := dispatch.New(fx.DB, dwgdraw.Block{}, opts...)
	defer d.Close()

	var drawErr error
	if walk {
		drawErr = d.Walk(dispatch.NewSliceIterator(fx.Events()))
	} else {
		drawErr = fx.Draw(d)
	}

	out := cmd.OutOrStdout()
	printSummary(out, d.Output(), cat)
	if showMetrics {
		if err := printMetrics(out, reg); err != nil {
			return err
		}
	}
	if dbPath != "" {
		s, err := sink.Open(cmd.Context(), dbPath)
		if err != nil {
			return err
		}
		defer s.Close()
		run, err := s.Write(cmd.Context(), d.Output())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "stored run %s in %s\n", run, dbPath)
	}

	if drawErr != nil {
		return fmt.Errorf("replay %s: %w", args[0], drawErr)
	}
	return nil
}

func printSummary(w io.Writer, out *dispatch.Output, cat *catalog.Catalog) {
	p := termenv.ColorProfile()
	for _, id := range out.BlockIDs() {
		recs := out.Records(id)
		if len(recs) == 0 {
			continue
		}
		kinds := make(map[string]int)
		for _, r := range recs {
			kinds[r.Geometry.Kind()]++
		}
		parts := make([]string, 0, len(kinds))
		for _, k := range slices.Sorted(maps.Keys(kinds)) {
			parts = append(parts, fmt.Sprintf("%s=%d", k, kinds[k]))
		}
		name := termenv.String(recs[0].BlockName).Foreground(p.Color("#818cf8")).Bold()
		fmt.Fprintf(w, "%s (%d): %d records [%s]\n", name, uint64(id), len(recs), strings.Join(parts, " "))
	}
	if cat != nil {
		fmt.Fprintf(w, "%d categories\n", len(cat.Categories()))
	}
}

func printMetrics(w io.Writer, reg prometheus.Gatherer) error {
	mfs, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(w, "%s%s %g\n", mf.GetName(), labels(m), m.GetCounter().GetValue())
		}
	}
	return nil
}

func labels(m *dto.Metric) string {
	if len(m.GetLabel()) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.GetLabel()))
	for _, l := range m.GetLabel() {
		parts = append(parts, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
