// Package pipeline wires the conversion stages into one batch run: rule
// parsing, grouping, variant expansion, costing, pricing, assembly, and
// serialization.
//
// A run is pure and deterministic: the caller supplies the four raw file
// contents, and the result carries the output CSV, the validation report,
// and the structured event stream. There is no shared mutable state across
// runs; every run builds its own rule sets and derived values.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/assemble"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/catalog"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/costing"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/csvio"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/export"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/pricing"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/rules"
)

// contextCheckInterval is how often (in core groups) the run checks for
// context cancellation.
const contextCheckInterval = 50

// Inputs are the raw contents of the four tabular input files. All four
// must be supplied before a run starts.
type Inputs struct {
	Master   string
	Natural  string
	LabGrown string
	NoStones string
}

// Counts summarizes one run for reporting.
type Counts struct {
	InputRecords   int `json:"inputRecords"`
	CoreGroups     int `json:"coreGroups"`
	SkippedGroups  int `json:"skippedGroups"`
	Variants       int `json:"variants"`
	FailedVariants int `json:"failedVariants"`
	ExportRows     int `json:"exportRows"`
	Handles        int `json:"handles"`
}

// Result is the outcome of one conversion run.
type Result struct {
	RunID    string
	CSV      string
	Report   export.Report
	Counts   Counts
	Events   []Event
	Duration time.Duration
}

// Pipeline converts one batch of inputs into export CSV text.
type Pipeline struct {
	Vendor string
	Logger *slog.Logger
}

// New creates a pipeline with the default vendor.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{Logger: logger}
}

// Run executes the full conversion. It returns an error only for
// unreadable master input or cancellation; rule-table gaps and per-variant
// lookup failures degrade into warnings/errors in the event stream while
// the batch continues.
func (p *Pipeline) Run(ctx context.Context, in Inputs) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	rec := NewRecorder(p.logger().With("run_id", runID))
	result := &Result{RunID: runID}

	books := p.parseRulebooks(in, rec)

	masterRows, err := csvio.ReadString(in.Master)
	if err != nil {
		return nil, fmt.Errorf("reading master input: %w", err)
	}
	records := catalog.ParseMaster(masterRows)
	result.Counts.InputRecords = len(records)

	groups, skipped := catalog.GroupRecords(records)
	result.Counts.CoreGroups = len(groups)
	for _, r := range skipped {
		rec.Warn(StageGroup, "row has no core number, skipped", "line", r.Line)
	}
	rec.Info(StageGroup, "input grouped", "records", len(records), "groups", len(groups))

	variants, err := p.expandAndPrice(ctx, groups, books, rec, result)
	if err != nil {
		return nil, err
	}

	rows := assemble.Assemble(variants, assemble.Options{Vendor: p.Vendor})
	result.Counts.ExportRows = len(rows)
	rec.Info(StageAssemble, "rows assembled", "rows", len(rows))

	result.Report = export.Validate(rows)
	result.Counts.Handles = result.Report.HandleCount
	for _, e := range result.Report.Errors {
		rec.Error(StageAssemble, e)
	}

	result.CSV = export.Serialize(rows)
	result.Duration = time.Since(start)

	if result.Report.IsValid {
		rec.Success(StageSerialize, "export complete",
			"rows", result.Counts.ExportRows,
			"handles", result.Counts.Handles,
			"duration", result.Duration.String(),
		)
	} else {
		rec.Warn(StageSerialize, "export completed with validation errors",
			"errors", len(result.Report.Errors),
		)
	}
	result.Events = rec.Events()
	return result, nil
}

// parseRulebooks parses the three rule tables. A table that cannot be read
// at all is replaced by an empty rule set; affected groups later expand to
// zero variants with warnings.
func (p *Pipeline) parseRulebooks(in Inputs, rec *Recorder) *catalog.Rulebooks {
	books := &catalog.Rulebooks{}

	if rows, err := csvio.ReadString(in.Natural); err != nil {
		rec.Warn(StageParseRules, "natural rule table unreadable", "error", err.Error())
		books.Natural = rules.ParseRuleSet("natural", nil)
	} else {
		books.Natural = rules.ParseRuleSet("natural", rows)
	}

	if rows, err := csvio.ReadString(in.LabGrown); err != nil {
		rec.Warn(StageParseRules, "labgrown rule table unreadable", "error", err.Error())
		books.LabGrown = rules.ParseRuleSet("labgrown", nil)
	} else {
		books.LabGrown = rules.ParseRuleSet("labgrown", rows)
	}

	if rows, err := csvio.ReadString(in.NoStones); err != nil {
		rec.Warn(StageParseRules, "nostones rule table unreadable", "error", err.Error())
		books.NoStones = rules.ParseNoStonesRuleSet("nostones", nil)
	} else {
		books.NoStones = rules.ParseNoStonesRuleSet("nostones", rows)
	}

	for _, w := range books.Natural.Warnings {
		rec.Warn(StageParseRules, w)
	}
	for _, w := range books.LabGrown.Warnings {
		rec.Warn(StageParseRules, w)
	}
	for _, w := range books.NoStones.Warnings {
		rec.Warn(StageParseRules, w)
	}

	rec.Info(StageParseRules, "rule tables parsed",
		"natural_center_combos", len(books.Natural.CenterCombinations),
		"natural_nocenter_combos", len(books.Natural.NoCenterCombinations),
		"labgrown_center_combos", len(books.LabGrown.CenterCombinations),
		"labgrown_nocenter_combos", len(books.LabGrown.NoCenterCombinations),
		"nostones_metals", len(books.NoStones.Metals),
	)
	return books
}

// expandAndPrice runs expansion, costing, and pricing per core group.
// Lookup failures abort the offending variant only.
func (p *Pipeline) expandAndPrice(
	ctx context.Context,
	groups []*catalog.CoreGroup,
	books *catalog.Rulebooks,
	rec *Recorder,
	result *Result,
) ([]*assemble.Variant, error) {
	engine := costing.NewEngine(books)
	var variants []*assemble.Variant

	for i, g := range groups {
		if i%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("run cancelled at group %d: %w", i+1, err)
			}
		}

		if g.Rulebook == catalog.RulebookUnknown {
			result.Counts.SkippedGroups++
			rec.Warn(StageExpand, "unresolved rulebook, group skipped",
				"core", g.CoreNumber, "diamond_type", g.DiamondType)
			continue
		}

		seeds := catalog.Expand(g, books)
		if len(seeds) == 0 {
			result.Counts.SkippedGroups++
			rec.Warn(StageExpand, "no variants produced for group",
				"core", g.CoreNumber, "scenario", string(g.Scenario))
			continue
		}
		if want := catalog.ExpectedVariantCount(g, books); len(seeds) != want {
			rec.Warn(StageExpand, "variant count mismatch",
				"core", g.CoreNumber, "got", len(seeds), "want", want)
		}

		margins := p.marginsFor(g, books)
		category := g.Records[0].Get(catalog.AliasCategory...)

		for _, seed := range seeds {
			cost, err := engine.Cost(seed)
			if err != nil {
				result.Counts.FailedVariants++
				rec.Error(StageCost, err.Error(),
					"core", g.CoreNumber, "metal", seed.Metal, "center", seed.CenterSize)
				continue
			}

			variants = append(variants, &assemble.Variant{
				Seed:  seed,
				Cost:  cost,
				Price: pricing.Price(cost.Total, margins, category),
			})
		}
	}

	result.Counts.Variants = len(variants)
	rec.Info(StagePrice, "variants priced",
		"variants", len(variants), "failed", result.Counts.FailedVariants)
	return variants, nil
}

// marginsFor returns the margin brackets governing a group. For no-stones
// groups the table is empty but present, so the category default applies
// rather than the no-rulebook fallback.
func (p *Pipeline) marginsFor(g *catalog.CoreGroup, books *catalog.Rulebooks) rules.MarginBrackets {
	if rs := books.ForGroup(g); rs != nil {
		if rs.Margins != nil {
			return rs.Margins
		}
		return rules.MarginBrackets{}
	}
	if g.Rulebook == catalog.RulebookNoStones {
		return rules.MarginBrackets{}
	}
	return nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
