package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"helpdeskbot/internal/app"
	"helpdeskbot/internal/models"
)

// TopCommand lists the most searched terms.
type TopCommand struct {
	Limit int `long:"limit" description:"Maximum terms to show" default:"10"`

	globals *GlobalFlags
	out     io.Writer
}

// Execute implements the go-flags Commander interface for TopCommand.
func (c *TopCommand) Execute(args []string) error {
	cfg, err := c.globals.loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return c.executeWithApp(ctx, a)
}

// executeWithApp reads the query log of a provided app (for testing).
func (c *TopCommand) executeWithApp(ctx context.Context, a *app.App) error {
	items, err := a.Queries.Top(ctx, c.Limit)
	if err != nil {
		return fmt.Errorf("read query log: %w", err)
	}

	summaries := make([]models.QuerySummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, item.Summary())
	}

	if c.globals.JSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	if len(summaries) == 0 {
		_, err := fmt.Fprintln(c.out, "No searches recorded.")
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "QUERY\tCOUNT\tUSERS\tLAST SEARCHED")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", s.Query, s.Count, s.Users, s.LastSearched.Format(time.RFC3339))
	}
	return tw.Flush()
}
