package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/saescope/internal/classify"
	"github.com/nvandessel/saescope/internal/export"
	"github.com/nvandessel/saescope/internal/models"
	"github.com/nvandessel/saescope/internal/pathutil"
	"github.com/nvandessel/saescope/internal/store"
)

const summaryResourceURI = "saescope://features/summary"

// registerTools registers all saescope MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "feature_stats",
		Description: "Get the feature statistics and category of one SAE latent dimension",
	}, s.handleFeatureStats)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "feature_summary",
		Description: "Count dimensions per firing-pattern category, optionally listing the dimensions of one category",
	}, s.handleFeatureSummary)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "classify_summary",
		Description: "Classify a dimension from its summary statistics without touching the database",
	}, s.handleClassifySummary)
}

// registerResources registers MCP resources for auto-loading into context.
func (s *Server) registerResources() {
	s.server.AddResource(&sdk.Resource{
		URI:         summaryResourceURI,
		Name:        "saescope-feature-summary",
		Description: "Category counts of the latest feature analysis.",
		MIMEType:    "text/markdown",
	}, s.handleSummaryResource)
}

func (s *Server) handleFeatureStats(ctx context.Context, req *sdk.CallToolRequest, args FeatureStatsInput) (_ *sdk.CallToolResult, _ FeatureStatsOutput, retErr error) {
	start := time.Now()
	defer func() { s.auditTool(ctx, "feature_stats", start, retErr, "dim", args.Dim) }()

	if err := s.toolLimiters.Check("feature_stats"); err != nil {
		return nil, FeatureStatsOutput{}, err
	}

	if args.Dim < 0 {
		return nil, FeatureStatsOutput{}, fmt.Errorf("dim must be non-negative, got %d", args.Dim)
	}

	run, err := s.store.LatestRun(ctx)
	if err != nil {
		return nil, FeatureStatsOutput{}, s.describeStoreErr(err)
	}
	row, err := s.store.Feature(ctx, args.Dim)
	if err != nil {
		return nil, FeatureStatsOutput{}, s.describeStoreErr(err)
	}

	columns := make(map[string]any, len(export.Columns))
	for _, c := range export.Columns {
		columns[c.Name] = c.Value(*row)
	}

	return nil, FeatureStatsOutput{
		Dim:      row.Dim,
		Category: string(row.Category),
		Columns:  columns,
		RunID:    run.ID,
	}, nil
}

func (s *Server) handleFeatureSummary(ctx context.Context, req *sdk.CallToolRequest, args FeatureSummaryInput) (_ *sdk.CallToolResult, _ FeatureSummaryOutput, retErr error) {
	start := time.Now()
	defer func() { s.auditTool(ctx, "feature_summary", start, retErr, "category", args.Category) }()

	if err := s.toolLimiters.Check("feature_summary"); err != nil {
		return nil, FeatureSummaryOutput{}, err
	}

	category := models.Category(args.Category)
	if category != "" && !category.Valid() {
		return nil, FeatureSummaryOutput{}, fmt.Errorf("unknown category %q", args.Category)
	}

	run, err := s.store.LatestRun(ctx)
	if err != nil {
		return nil, FeatureSummaryOutput{}, s.describeStoreErr(err)
	}
	counts, err := s.store.CategoryCounts(ctx)
	if err != nil {
		return nil, FeatureSummaryOutput{}, s.describeStoreErr(err)
	}

	out := FeatureSummaryOutput{
		Run:    runInfo(run),
		Counts: make(map[string]int, len(models.AllCategories)),
	}
	for _, c := range models.AllCategories {
		out.Counts[string(c)] = counts[c]
		out.Total += counts[c]
	}

	if category != "" {
		rows, err := s.store.Features(ctx, category)
		if err != nil {
			return nil, FeatureSummaryOutput{}, s.describeStoreErr(err)
		}
		out.Dims = make([]int, len(rows))
		for i, r := range rows {
			out.Dims[i] = r.Dim
		}
	}

	return nil, out, nil
}

func (s *Server) handleClassifySummary(ctx context.Context, req *sdk.CallToolRequest, args ClassifySummaryInput) (_ *sdk.CallToolResult, _ ClassifySummaryOutput, retErr error) {
	start := time.Now()
	defer func() { s.auditTool(ctx, "classify_summary", start, retErr, "n_seqs", args.NumSequences) }()

	if err := s.toolLimiters.Check("classify_summary"); err != nil {
		return nil, ClassifySummaryOutput{}, err
	}

	d := classify.Explain(models.DimensionSummary{
		NumSequences:        args.NumSequences,
		DeadLatent:          args.DeadLatent,
		FreqTopTwoPeriod:    args.FreqTopTwoPeriod,
		MedianRunsPerSeq:    args.MedianRunsPerSeq,
		MedianTopRunLength:  args.MedianTopRunLength,
		MedianHighRunLength: args.MedianHighRunLength,
		FracRunsHigh:        args.FracRunsHigh,
		MeanFractionActive:  args.MeanFractionActive,
	})

	return nil, ClassifySummaryOutput{Category: string(d.Category), Rule: d.Rule}, nil
}

// handleSummaryResource renders the latest run's category counts as markdown.
func (s *Server) handleSummaryResource(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
	text, err := s.summaryMarkdown(ctx)
	if err != nil {
		return nil, err
	}
	return &sdk.ReadResourceResult{
		Contents: []*sdk.ResourceContents{
			{
				URI:      summaryResourceURI,
				MIMEType: "text/markdown",
				Text:     text,
			},
		},
	}, nil
}

func (s *Server) summaryMarkdown(ctx context.Context) (string, error) {
	run, err := s.store.LatestRun(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return "# SAE Feature Summary\n\nNo analysis has been stored yet. Run `saescope analyze --format sqlite`.\n", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load latest run: %w", err)
	}
	counts, err := s.store.CategoryCounts(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to count categories: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# SAE Feature Summary\n\n")
	fmt.Fprintf(&sb, "Run `%s` over %d dimensions from `%s`.\n\n", run.ID, run.HiddenDim, run.InputDir)
	sb.WriteString("| Category | Dimensions |\n|---|---|\n")

	cats := make([]models.Category, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if counts[cats[i]] != counts[cats[j]] {
			return counts[cats[i]] > counts[cats[j]]
		}
		return cats[i] < cats[j]
	})
	for _, c := range cats {
		fmt.Fprintf(&sb, "| %s | %d |\n", c, counts[c])
	}
	return sb.String(), nil
}

func runInfo(run *store.AnalysisRun) RunInfo {
	return RunInfo{
		ID:           run.ID,
		FinishedAt:   run.FinishedAt.Format(time.RFC3339),
		InputDir:     run.InputDir,
		HiddenDim:    run.HiddenDim,
		FilesRead:    run.FilesRead,
		FilesSkipped: run.FilesSkipped,
	}
}

// describeStoreErr turns store failures into client-facing errors without
// leaking the database location.
func (s *Server) describeStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no stored feature statistics match the request: %w", err)
	}
	return pathutil.RedactError(err, s.dbPath)
}
