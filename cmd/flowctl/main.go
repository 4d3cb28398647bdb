// flowctl - catalog conversion command line tool
//
// Usage:
//
//	flowctl convert --master master.csv --natural natural.csv [options]
//	flowctl rules --file natural.csv --type natural
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/csvio"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/logging"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/pipeline"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/rules"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "flowctl",
		Usage:   "Expand jewelry master data into a Shopify product CSV",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "Log format (text, json)",
				EnvVars: []string{"LOG_FORMAT"},
			},
		},
		Before: func(c *cli.Context) error {
			logging.Setup(c.String("log-level"), c.String("log-format"))
			return nil
		},

		Commands: []*cli.Command{
			convertCommand(),
			rulesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// CONVERT COMMAND
// =============================================================================

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Convert grouped master data and rule tables into a Shopify CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "master",
				Aliases:  []string{"m"},
				Usage:    "Path to the grouped master data CSV",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "natural",
				Usage: "Path to the natural diamond rule table CSV",
			},
			&cli.StringFlag{
				Name:  "labgrown",
				Usage: "Path to the lab-grown diamond rule table CSV",
			},
			&cli.StringFlag{
				Name:  "nostones",
				Usage: "Path to the no-stones metal table CSV",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output CSV path (default: stdout)",
			},
			&cli.StringFlag{
				Name:  "vendor",
				Usage: "Vendor name stamped on parent rows",
			},
			&cli.StringFlag{
				Name:    "report",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Report format (text, json)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 5 * time.Minute,
				Usage: "Maximum conversion duration",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Exit nonzero when the export fails validation",
			},
		},
		Action: runConvert,
	}
}

func runConvert(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	inputs := pipeline.Inputs{}
	var err error
	if inputs.Master, err = readInput(c.String("master")); err != nil {
		return fmt.Errorf("reading master file: %w", err)
	}
	if inputs.Natural, err = readOptionalInput(c.String("natural")); err != nil {
		return fmt.Errorf("reading natural rule table: %w", err)
	}
	if inputs.LabGrown, err = readOptionalInput(c.String("labgrown")); err != nil {
		return fmt.Errorf("reading labgrown rule table: %w", err)
	}
	if inputs.NoStones, err = readOptionalInput(c.String("nostones")); err != nil {
		return fmt.Errorf("reading nostones table: %w", err)
	}

	pipe := pipeline.New(nil)
	pipe.Vendor = c.String("vendor")

	result, err := pipe.Run(ctx, inputs)
	if err != nil {
		return err
	}

	if out := c.String("out"); out != "" {
		if err := os.WriteFile(out, []byte(result.CSV), 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	} else {
		fmt.Print(result.CSV)
	}

	if err := printReport(c.String("report"), result, c.String("out") != ""); err != nil {
		return err
	}

	if c.Bool("strict") && !result.Report.IsValid {
		return fmt.Errorf("export failed validation with %d error(s)", len(result.Report.Errors))
	}
	return nil
}

// printReport writes a run summary to stderr, or stdout when the CSV went
// to a file.
func printReport(format string, result *pipeline.Result, csvToFile bool) error {
	out := os.Stderr
	if csvToFile {
		out = os.Stdout
	}

	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"runId":      result.RunID,
			"valid":      result.Report.IsValid,
			"errors":     result.Report.Errors,
			"counts":     result.Counts,
			"events":     result.Events,
			"durationMs": result.Duration.Milliseconds(),
		})
	}

	fmt.Fprintf(out, "Run %s finished in %s\n", result.RunID, result.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "  input records:   %d\n", result.Counts.InputRecords)
	fmt.Fprintf(out, "  core groups:     %d\n", result.Counts.CoreGroups)
	fmt.Fprintf(out, "  variants:        %d (%d failed)\n", result.Counts.Variants, result.Counts.FailedVariants)
	fmt.Fprintf(out, "  export rows:     %d across %d handles\n", result.Counts.ExportRows, result.Counts.Handles)

	for _, e := range result.Events {
		if e.Level == pipeline.LevelWarning || e.Level == pipeline.LevelError {
			fmt.Fprintf(out, "  [%s] %s: %s\n", e.Level, e.Stage, e.Message)
		}
	}
	if !result.Report.IsValid {
		fmt.Fprintf(out, "export INVALID: %s\n", strings.Join(result.Report.Errors, "; "))
	}
	return nil
}

// =============================================================================
// RULES COMMAND
// =============================================================================

func rulesCommand() *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "Parse a rule table and report what was recognized",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Usage:    "Path to the rule table CSV",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "type",
				Value: "natural",
				Usage: "Rule table type (natural, labgrown, nostones)",
			},
		},
		Action: runRules,
	}
}

func runRules(c *cli.Context) error {
	text, err := readInput(c.String("file"))
	if err != nil {
		return fmt.Errorf("reading rule table: %w", err)
	}

	rows, err := csvio.ReadString(text)
	if err != nil {
		return fmt.Errorf("parsing rule table: %w", err)
	}

	kind := strings.ToLower(c.String("type"))
	if kind == "nostones" {
		rs := rules.ParseNoStonesRuleSet(kind, rows)
		fmt.Printf("metals: %d\n", len(rs.Metals))
		for _, m := range rs.Metals {
			fmt.Printf("  %-4s %s/g\n", m, rs.MetalPrices.PricePerGram(m).StringFixed(2))
		}
		printWarnings(rs.Warnings)
		return nil
	}

	rs := rules.ParseRuleSet(kind, rows)
	fmt.Printf("center combinations:    %d\n", len(rs.CenterCombinations))
	fmt.Printf("no-center combinations: %d\n", len(rs.NoCenterCombinations))
	fmt.Printf("margin brackets:        %d\n", len(rs.Margins))
	fmt.Printf("diamond price entries:  %d\n", len(rs.DiamondPrices))
	printWarnings(rs.Warnings)
	return nil
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w)
	}
}

// readInput loads a file, or stdin when path is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readOptionalInput loads a file; an empty path yields an empty string.
func readOptionalInput(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return readInput(path)
}
