package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vidmux/pkg/cache"
	"vidmux/pkg/config"
	"vidmux/pkg/core"
	"vidmux/pkg/engine"
	"vidmux/pkg/facet"
	"vidmux/pkg/log"
	"vidmux/pkg/nav"
	"vidmux/pkg/session"
	"vidmux/pkg/settings"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 1, 0)

	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1).
			Margin(0, 0, 1, 2)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("32")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Margin(1, 0, 0, 0)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	selectedBadgeStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86"))
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search all enabled sources",
		ArgsUsage: "QUERY",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "source",
				Usage: "Filter results to specific source(s). Can be used multiple times",
			},
			&cli.StringSliceFlag{
				Name:  "type",
				Usage: "Filter results to specific content type(s). Can be used multiple times",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort order: relevance, newest or title",
			},
			&cli.BoolFlag{
				Name:  "cached",
				Usage: "Restore cached results for QUERY instead of querying sources",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results per source (0 uses the configured limit)",
			},
			&cli.BoolFlag{
				Name:  "no-pager",
				Usage: "Disable pager and output directly to terminal",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("debug") {
				log.SetGlobalDebug(true)
			}
			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if query == "" {
				return fmt.Errorf("usage: vidmux search QUERY")
			}
			return runSearch(c.String("config"), query, searchOptions{
				sources: c.StringSlice("source"),
				types:   c.StringSlice("type"),
				sort:    c.String("sort"),
				cached:  c.Bool("cached"),
				limit:   c.Int("limit"),
				noPager: c.Bool("no-pager"),
			})
		},
	}
}

type searchOptions struct {
	sources []string
	types   []string
	sort    string
	cached  bool
	limit   int
	noPager bool
}

// runSearch builds a full session over an in-memory navigator, runs the
// query and renders the settled state.
func runSearch(configPath, query string, opts searchOptions) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	registry := core.GetGlobalRegistry()
	if err := createSourcesFromConfig(registry, cfg); err != nil {
		return fmt.Errorf("creating sources: %w", err)
	}
	defer func() {
		if err := registry.Close(); err != nil {
			fmt.Printf("Warning: failed to close registry: %v\n", err)
		}
	}()

	logger := log.ForComponent("search")
	for name, src := range registry.GetAllSources() {
		logger.Debugf("configured source %s (type %s)", name, src.Type())
	}

	initial := cfg.Settings()
	if opts.sort != "" {
		initial.SortBy = core.ParseSortBy(opts.sort)
	}
	store := settings.NewStore(initial)

	cacheStore, err := cache.NewSQLite(cfg.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer func() {
		if err := cacheStore.Close(); err != nil {
			fmt.Printf("Warning: failed to close cache: %v\n", err)
		}
	}()

	limit := cfg.ResultLimit
	if opts.limit > 0 {
		limit = opts.limit
	}
	eng := engine.NewParallel(engine.Config{
		ResultLimit:   limit,
		SourceTimeout: cfg.SourceTimeout.Duration,
	})

	// Flags become URL parameters, the same way a shared link would seed
	// a session. --cached puts the query in the URL so mount restoration
	// kicks in; a cache miss falls through to a fresh search on its own.
	location := nav.NewLocation("/")
	if len(opts.sources) > 0 {
		location.Params.Set(session.SourcesParam, nav.EncodeList(opts.sources))
	}
	if len(opts.types) > 0 {
		location.Params.Set(session.TypesParam, nav.EncodeList(opts.types))
	}
	if opts.cached {
		location.Params.Set(session.QueryParam, query)
	}
	navigator := nav.NewMemory(location)

	sess := session.New(navigator, eng, store, registry, cacheStore)
	defer sess.Close()

	settled := make(chan struct{}, 1)
	unsubscribe := eng.Subscribe(func(snap engine.Snapshot) {
		if snap.Settled() {
			select {
			case settled <- struct{}{}:
			default:
			}
			return
		}
		if snap.TotalSources > 0 {
			fmt.Fprintf(os.Stderr, "\r%d/%d sources", snap.CompletedSources, snap.TotalSources)
		}
	})
	defer unsubscribe()

	sess.Mount()
	if !opts.cached {
		sess.HandleSearch(query)
	}

	state := sess.State()
	if state.Loading {
		select {
		case <-settled:
		case <-time.After(cfg.SourceTimeout.Duration + 5*time.Second):
			fmt.Fprintln(os.Stderr, "\ntimed out waiting for sources, showing partial results")
		}
		fmt.Fprintln(os.Stderr)
	} else if !state.Settled() {
		return fmt.Errorf("no enabled sources to search; check %s or run 'vidmux init'", configPath)
	}

	output := renderResults(sess, query)
	if opts.noPager || !isTerminal() {
		fmt.Print(output)
		return nil
	}
	return displayWithPager(output)
}

// renderResults formats the settled session state: summary, facet badges
// and results grouped by content type.
func renderResults(sess *session.Session, query string) string {
	var output strings.Builder

	state := sess.State()
	filtered := sess.FilteredResults()

	title := fmt.Sprintf("🔎 Results for %q", query)
	output.WriteString(titleStyle.Render(title))
	output.WriteString("\n")

	summary := fmt.Sprintf("📊 %d results from %d/%d sources",
		len(state.Results), state.CompletedSources, state.TotalSources)
	if len(filtered) != len(state.Results) {
		summary += fmt.Sprintf(", %d after filters", len(filtered))
	}
	output.WriteString(summaryStyle.Render(summary))
	output.WriteString("\n")

	if badges := renderBadges(sess, state.Results); badges != "" {
		output.WriteString(badges)
		output.WriteString("\n")
	}

	if len(filtered) == 0 {
		message := "No results found"
		if len(state.Results) > 0 {
			message = "No results match the active filters"
		}
		output.WriteString(noDataStyle.Render(message + "."))
		output.WriteString("\n")
		return output.String()
	}

	// Group by content type, largest group first.
	groups := make(map[string][]core.Video)
	for _, v := range filtered {
		key := strings.TrimSpace(v.ContentType)
		if key == "" {
			key = "unknown"
		}
		groups[key] = append(groups[key], v)
	}

	titleCaser := cases.Title(language.English)
	for _, badge := range facet.CountTypes(filtered) {
		videos := groups[badge.Value]
		delete(groups, badge.Value)

		header := fmt.Sprintf("🎬 %s (%d)", titleCaser.String(badge.Value), len(videos))
		output.WriteString(headerStyle.Render(header))
		output.WriteString("\n")

		for i, v := range videos {
			output.WriteString(formatVideo(v, i+1))
			output.WriteString("\n")
		}
	}

	// Results without a content type land in one trailing group.
	if videos := groups["unknown"]; len(videos) > 0 {
		header := fmt.Sprintf("🎬 Unknown (%d)", len(videos))
		output.WriteString(headerStyle.Render(header))
		output.WriteString("\n")
		for i, v := range videos {
			output.WriteString(formatVideo(v, i+1))
			output.WriteString("\n")
		}
	}

	return output.String()
}

// renderBadges shows the facet values of the full result set with counts,
// highlighting selected values.
func renderBadges(sess *session.Session, videos []core.Video) string {
	var parts []string
	if line := badgeLine("types", facet.CountTypes(videos), sess.Types()); line != "" {
		parts = append(parts, line)
	}
	if line := badgeLine("sources", facet.CountSources(videos), sess.Sources()); line != "" {
		parts = append(parts, line)
	}
	return strings.Join(parts, "\n")
}

func badgeLine(label string, badges []facet.Badge, selected *facet.Synchronizer) string {
	if len(badges) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(badges))
	for _, b := range badges {
		text := fmt.Sprintf("%s (%d)", b.Value, b.Count)
		if selected.Has(b.Value) {
			rendered = append(rendered, selectedBadgeStyle.Render(text))
		} else {
			rendered = append(rendered, badgeStyle.Render(text))
		}
	}
	return fmt.Sprintf("%s: %s", label, strings.Join(rendered, " "))
}

// formatVideo formats a single result for display
func formatVideo(v core.Video, index int) string {
	var content strings.Builder

	header := fmt.Sprintf("#%d - %s", index, v.Title)
	content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")).Render(header))
	content.WriteString("\n\n")

	var details []string
	if v.Channel != "" {
		details = append(details, v.Channel)
	}
	if v.Duration > 0 {
		details = append(details, core.FormatDuration(v.Duration))
	}
	if !v.PublishedAt.IsZero() {
		details = append(details, v.PublishedAt.Format("2006-01-02"))
	}
	if len(details) > 0 {
		content.WriteString(strings.Join(details, ", "))
	}

	if v.Description != "" {
		content.WriteString("\n" + core.Truncate(v.Description, 160))
	}

	if v.URL != "" {
		content.WriteString("\n" + urlStyle.Render(fmt.Sprintf("🔗 %s", v.URL)))
	}

	content.WriteString("\n\n")
	content.WriteString(metaStyle.Render(fmt.Sprintf("ID: %s | Source: %s", v.ID, v.Source)))

	return resultStyle.Render(content.String())
}

// isTerminal checks if stdout is a terminal
func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// displayWithPager displays content using a pager
func displayWithPager(content string) error {
	pagerCmd := os.Getenv("PAGER")
	if pagerCmd == "" {
		// Try common pagers in order of preference
		pagers := []string{"less", "more", "cat"}
		for _, pager := range pagers {
			if _, err := exec.LookPath(pager); err == nil {
				pagerCmd = pager
				break
			}
		}
	}

	if pagerCmd == "" {
		fmt.Print(content)
		return nil
	}

	// Set up less with good defaults if it's available
	args := []string{}
	if strings.Contains(pagerCmd, "less") {
		args = []string{"-R", "-S", "-F", "-X"}
	}

	cmd := exec.Command(pagerCmd, args...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
