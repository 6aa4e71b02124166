package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"helpdeskbot/internal/app"
	"helpdeskbot/internal/config"
	"helpdeskbot/internal/models"
)

// SearchCommand dispatches a search through the bot.
type SearchCommand struct {
	User   string `long:"user" description:"User ID sent with the request" default:"botctl"`
	Record bool   `long:"record" description:"Write the search to the configured query log backend"`

	globals *GlobalFlags
	out     io.Writer
}

// Execute implements the go-flags Commander interface for SearchCommand.
func (c *SearchCommand) Execute(args []string) error {
	cfg, err := c.globals.loadConfig()
	if err != nil {
		return err
	}
	if !c.Record {
		cfg.QueryLogBackend = config.BackendMemory
	}

	ctx := context.Background()
	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return c.executeWithApp(ctx, a, args)
}

// executeWithApp runs the search against a provided app (for testing).
func (c *SearchCommand) executeWithApp(ctx context.Context, a *app.App, args []string) error {
	term := strings.Join(args, " ")
	bot := a.Config.Bot

	req := &models.LexRequest{
		UserID:            c.User,
		InputTranscript:   term,
		SessionAttributes: map[string]string{},
		CurrentIntent: &models.CurrentIntent{
			Name:  bot.IntentName,
			Slots: map[string]*string{bot.SlotName: &term},
		},
	}

	resp, err := a.Bot.Dispatch(ctx, req)
	if err != nil {
		return err
	}

	if c.globals.JSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	return printResponse(c.out, resp)
}

func printResponse(w io.Writer, resp *models.LexResponse) error {
	switch action := resp.DialogAction.(type) {
	case models.ElicitSlotAction:
		_, err := fmt.Fprintf(w, "%s (slot %s)\n", action.Message.Content, action.SlotToElicit)
		return err
	case models.CloseAction:
		fmt.Fprintln(w, action.Message.Content)
		for i, card := range action.Attachments() {
			fmt.Fprintf(w, "%d. %s\n   %s\n   %s\n", i+1, card.Title, card.SubTitle, card.AttachmentLinkURL)
		}
		return nil
	}
	return fmt.Errorf("unexpected dialog action %T", resp.DialogAction)
}
