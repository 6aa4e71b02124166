// Package bot dispatches dialog engine fulfillment requests to the video search handler.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"helpdeskbot/internal/catalog"
	"helpdeskbot/internal/config"
	"helpdeskbot/internal/dialog"
	"helpdeskbot/internal/metrics"
	"helpdeskbot/internal/models"
	"helpdeskbot/internal/querylog"
	"helpdeskbot/internal/validation"
)

// Bot handles the video search intent.
type Bot struct {
	cfg       config.BotConfig
	source    catalog.Source
	recorder  *querylog.Recorder
	responder *dialog.Responder
	log       *slog.Logger
}

// New creates a Bot. recorder may be nil to disable the query log.
func New(cfg config.BotConfig, source catalog.Source, recorder *querylog.Recorder, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		cfg:       cfg,
		source:    source,
		recorder:  recorder,
		responder: dialog.NewResponder(cfg),
		log:       logger,
	}
}

// Dispatch routes req to the supported intent handler.
func (b *Bot) Dispatch(ctx context.Context, req *models.LexRequest) (*models.LexResponse, error) {
	intent := req.IntentName()
	if intent != b.cfg.IntentName {
		metrics.RecordFulfillment(metrics.OutcomeUnsupported)
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedIntent, intent)
	}
	return b.searchVideos(ctx, req)
}

func (b *Bot) searchVideos(ctx context.Context, req *models.LexRequest) (*models.LexResponse, error) {
	term, err := b.searchTerm(req)
	if err != nil {
		b.log.Debug("eliciting slot", "slot", b.cfg.SlotName, "user_id", req.UserID, "reason", err)
		metrics.RecordFulfillment(metrics.OutcomeElicit)
		return b.responder.ElicitSlot(req.Session(), b.cfg.IntentName, req.Slots(), b.cfg.SlotName, ""), nil
	}

	entries, err := b.source.Load(ctx)
	if err != nil {
		metrics.RecordFulfillment(metrics.OutcomeCatalogErr)
		if !errors.Is(err, catalog.ErrCatalogRead) {
			err = fmt.Errorf("%w: %w", catalog.ErrCatalogRead, err)
		}
		return nil, err
	}

	// Only invocations that reach Close are logged.
	if b.recorder != nil {
		pending := b.recorder.Record(ctx, querylog.Search{
			Term:      term,
			UserID:    req.UserID,
			Utterance: req.InputTranscript,
		})
		defer pending.Wait()
	}

	matches := catalog.Match(term, entries)
	results := catalog.Rank(matches, catalog.Limits{
		ViewCountCutoff: b.cfg.ViewCountCutoff,
		ResultLimit:     b.cfg.ResultLimit,
	})
	b.log.Info("search fulfilled", "term", term, "matches", len(matches), "results", len(results))

	metrics.RecordFulfillment(metrics.OutcomeFulfilled)
	return b.responder.Close(req.Session(), term, results), nil
}

func (b *Bot) searchTerm(req *models.LexRequest) (string, error) {
	term := req.Slot(b.cfg.SlotName)
	if ok, msg := validation.ValidateQuery(term); !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingSlot, msg)
	}
	return term, nil
}
