// Package dialog renders outbound dialog actions for the dialog engine.
package dialog

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"helpdeskbot/internal/config"
	"helpdeskbot/internal/models"
	"helpdeskbot/internal/validation"
)

const ellipsis = "..."

// Responder builds ElicitSlot and Close responses using the bot copy from config.
type Responder struct {
	cfg config.BotConfig
}

// NewResponder creates a Responder.
func NewResponder(cfg config.BotConfig) *Responder {
	return &Responder{cfg: cfg}
}

// ElicitSlot asks the user to fill slot. The current slots and session are passed through.
func (r *Responder) ElicitSlot(session map[string]string, intent string, slots map[string]*string, slot, message string) *models.LexResponse {
	if message == "" {
		message = r.cfg.ElicitPrompt
	}
	return &models.LexResponse{
		SessionAttributes: nonNilSession(session),
		DialogAction: models.ElicitSlotAction{
			IntentName:   intent,
			Slots:        slots,
			SlotToElicit: slot,
			Message:      models.PlainText(message),
		},
	}
}

// Close fulfills the intent with one card per ranked result.
// An empty result set still yields a card with no attachments.
func (r *Responder) Close(session map[string]string, term string, results []models.RankedResult) *models.LexResponse {
	attachments := make([]models.GenericAttachment, 0, len(results))
	for _, res := range results {
		attachments = append(attachments, r.attachment(res))
	}

	return &models.LexResponse{
		SessionAttributes: nonNilSession(session),
		DialogAction: models.CloseAction{
			FulfillmentState: models.FulfillmentFulfilled,
			Message:          models.PlainText(r.summary(term, len(results))),
			ResponseCard: &models.ResponseCard{
				Version:            r.cfg.CardVersion,
				ContentType:        models.ContentTypeGenericCard,
				GenericAttachments: attachments,
			},
		},
	}
}

func (r *Responder) summary(term string, n int) string {
	if n == 0 {
		return fmt.Sprintf(r.cfg.NoResultsText, term)
	}
	return fmt.Sprintf(r.cfg.ResultsHeader, term)
}

func (r *Responder) attachment(res models.RankedResult) models.GenericAttachment {
	a := models.GenericAttachment{
		Title:             TruncateTitle(res.Title, r.cfg.TitleMaxLength),
		SubTitle:          Subtitle(res),
		AttachmentLinkURL: r.cfg.WatchURLPrefix + res.VideoID,
	}
	if ok, _ := validation.ValidateURL(res.ThumbnailURL); ok {
		a.ImageURL = res.ThumbnailURL
	}
	return a
}

// Subtitle renders view count and popularity for a card.
func Subtitle(res models.RankedResult) string {
	return "Views: " + strconv.FormatUint(res.ViewCount, 10) + " | Popularity: " + strconv.Itoa(res.Popularity) + "%"
}

// TruncateTitle shortens title to at most max runes, ending in "..." when cut.
func TruncateTitle(title string, max int) string {
	if utf8.RuneCountInString(title) <= max {
		return title
	}
	keep := max - utf8.RuneCountInString(ellipsis)
	if keep < 0 {
		keep = 0
	}
	runes := []rune(title)
	return string(runes[:keep]) + ellipsis
}

func nonNilSession(s map[string]string) map[string]string {
	if s == nil {
		return map[string]string{}
	}
	return s
}
