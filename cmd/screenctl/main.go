// Command screenctl is a debug CLI for ad hoc sanctions-screening queries
// against a small seeded or file-loaded entity set.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/braidfi/sanctionscreen/pkg/config"
	"github.com/braidfi/sanctionscreen/pkg/screening"
)

func main() {
	os.Exit(run())
}

func run() int {
	name := flag.String("name", "", "name to screen")
	country := flag.String("country", "", "country associated with the query, used for language fallback")
	dataPath := flag.String("data", "", "path to a JSON file of entities to screen against (seeded demo entities if empty)")
	profile := flag.String("profile", "balanced", "tuning profile: strict, balanced, lenient")
	minScore := flag.Float64("min-score", 0.5, "minimum total score to report")
	limit := flag.Int("limit", 10, "maximum matches to print")
	trace := flag.Bool("trace", false, "print the per-phase scoring trace for each match")
	source := flag.String("source", "", "restrict candidates to this source list (e.g. OFAC_SDN)")
	entityType := flag.String("type", "", "restrict candidates to this entity type (e.g. PERSON)")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()
	screening.SetLogger(logger)

	if *name == "" {
		fmt.Fprintln(os.Stderr, "screenctl: -name is required")
		return 1
	}

	cfg := profileConfig(*profile)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "screenctl: invalid configuration: %v\n", err)
		return 1
	}

	entities, err := loadEntities(*dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "screenctl: %v\n", err)
		return 1
	}

	idx := screening.NewIndex()
	merged := screening.NewMerger().Merge(entities)
	for _, e := range merged {
		if err := e.Validate(); err != nil {
			logger.Warn("skipping invalid entity", zap.String("id", e.ID), zap.Error(err))
			continue
		}
		idx.AddAll(e)
	}

	svc, err := screening.NewSearchService(idx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "screenctl: %v\n", err)
		return 1
	}

	query := &screening.Entity{
		ID:     screening.NewEntityID(),
		Name:   *name,
		Type:   screening.TypePerson,
		Person: &screening.PersonDetail{},
	}
	if *country != "" {
		query.Addresses = []screening.Address{{Country: *country}}
	}

	matches, err := svc.Search(context.Background(), query, screening.SearchOptions{
		MinScore: *minScore,
		Limit:    *limit,
		Trace:    *trace,
		Source:   screening.SourceList(*source),
		Type:     screening.EntityType(*entityType),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "screenctl: search failed: %v\n", err)
		return 1
	}

	printMatches(matches, *trace)
	return 0
}

// profileConfig resolves a named tuning preset to a *config.Config,
// falling back to Balanced for an unrecognized name.
func profileConfig(name string) *config.Config {
	switch name {
	case "strict":
		return config.Strict()
	case "lenient":
		return config.Lenient()
	default:
		return config.Balanced()
	}
}

func loadEntities(path string) ([]*screening.Entity, error) {
	if path == "" {
		return demoEntities(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var entities []*screening.Entity
	if err := json.Unmarshal(raw, &entities); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return entities, nil
}

func demoEntities() []*screening.Entity {
	return []*screening.Entity{
		{
			ID: screening.NewEntityID(), SourceID: "SDN-1", Name: "Vladimir Putin",
			Type: screening.TypePerson, Source: screening.SourceOFACSDN,
			Person:        &screening.PersonDetail{BirthDate: &screening.Date{Year: 1952, Month: 10, Day: 7}},
			AltNames:      []string{"Vladimir Vladimirovich Putin"},
			SanctionsInfo: []screening.SanctionsInfo{{Program: screening.ProgramOFACSDN}},
		},
		{
			ID: screening.NewEntityID(), SourceID: "SDN-2", Name: "Acme Holdings Inc",
			Type: screening.TypeBusiness, Source: screening.SourceUSCSL,
			Business: &screening.BusinessDetail{},
			Addresses: []screening.Address{{City: "Panama City", Country: "Panama"}},
		},
	}
}

// colorWriter picks a colorable stdout only when attached to a real
// terminal, matching the teacher's guard against emitting escape codes
// into redirected/piped output.
func colorWriter() io.Writer {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return colorable.NewColorableStdout()
	}
	return os.Stdout
}

const (
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiReset  = "\x1b[0m"
)

func confidenceColor(score float64) string {
	switch {
	case score >= 0.85:
		return ansiGreen
	case score >= 0.65:
		return ansiYellow
	default:
		return ansiRed
	}
}

func printMatches(matches []screening.Match, withTrace bool) {
	out := colorWriter()
	if len(matches) == 0 {
		fmt.Fprintln(out, "no matches above threshold")
		return
	}

	for _, m := range matches {
		color := confidenceColor(m.Breakdown.TotalWeightedScore)
		fmt.Fprintf(out, "%s%-40s score=%.4f high_confidence=%v%s\n",
			color, m.Entity.Name, m.Breakdown.TotalWeightedScore, m.Breakdown.HighConfidence, ansiReset)
		fmt.Fprintf(out, "  source=%s type=%s coverage=%.2f\n", m.Entity.Source, m.Entity.Type, m.Breakdown.Coverage)
		fmt.Fprintf(out, "  %s\n", m.Breakdown.String())
		if withTrace {
			fmt.Fprintf(out, "  trace session=%s duration=%.2fms\n", m.Trace.SessionID, m.Trace.DurationMs)
			for _, entry := range m.Trace.Events {
				fmt.Fprintf(out, "    %s\n", entry.String())
			}
		}
	}
}
