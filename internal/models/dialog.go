package models

import (
	"encoding/json"
	"strings"
)

// Dialog action types and states used by the dialog engine protocol.
const (
	DialogTypeElicitSlot = "ElicitSlot"
	DialogTypeClose      = "Close"

	FulfillmentFulfilled = "Fulfilled"

	ContentTypePlainText   = "PlainText"
	ContentTypeGenericCard = "application/vnd.amazonaws.card.generic"
)

// LexRequest is the inbound fulfillment event sent by the dialog engine.
type LexRequest struct {
	MessageVersion    string            `json:"messageVersion,omitempty"`
	InvocationSource  string            `json:"invocationSource,omitempty"`
	UserID            string            `json:"userId"`
	SessionAttributes map[string]string `json:"sessionAttributes"`
	RequestAttributes map[string]string `json:"requestAttributes,omitempty"`
	Bot               *LexBot           `json:"bot,omitempty"`
	OutputDialogMode  string            `json:"outputDialogMode,omitempty"`
	CurrentIntent     *CurrentIntent    `json:"currentIntent"`
	InputTranscript   string            `json:"inputTranscript"`
}

// LexBot identifies the calling bot.
type LexBot struct {
	Name    string `json:"name"`
	Alias   string `json:"alias"`
	Version string `json:"version"`
}

// CurrentIntent carries the recognized intent and its slot values.
// Unfilled slots arrive as JSON null.
type CurrentIntent struct {
	Name               string             `json:"name"`
	Slots              map[string]*string `json:"slots"`
	ConfirmationStatus string             `json:"confirmationStatus,omitempty"`
}

// IntentName returns the current intent name, or "" when absent.
func (r *LexRequest) IntentName() string {
	if r == nil || r.CurrentIntent == nil {
		return ""
	}
	return r.CurrentIntent.Name
}

// Slot returns the trimmed value of the named slot, or "" when unfilled.
func (r *LexRequest) Slot(name string) string {
	if r == nil || r.CurrentIntent == nil {
		return ""
	}
	v := r.CurrentIntent.Slots[name]
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

// Slots returns the slot map, never nil.
func (r *LexRequest) Slots() map[string]*string {
	if r == nil || r.CurrentIntent == nil || r.CurrentIntent.Slots == nil {
		return map[string]*string{}
	}
	return r.CurrentIntent.Slots
}

// Session returns the session attributes, never nil.
func (r *LexRequest) Session() map[string]string {
	if r == nil || r.SessionAttributes == nil {
		return map[string]string{}
	}
	return r.SessionAttributes
}

// LexResponse is the outbound payload returned to the dialog engine.
type LexResponse struct {
	SessionAttributes map[string]string `json:"sessionAttributes"`
	DialogAction      DialogAction      `json:"dialogAction"`
}

// DialogAction is implemented by ElicitSlotAction and CloseAction only.
type DialogAction interface {
	DialogType() string
	isDialogAction()
}

// Message is a plain-text prompt or summary.
type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// PlainText builds a plain-text Message.
func PlainText(content string) Message {
	return Message{ContentType: ContentTypePlainText, Content: content}
}

// ElicitSlotAction asks the user to supply a missing slot.
type ElicitSlotAction struct {
	IntentName   string             `json:"intentName"`
	Slots        map[string]*string `json:"slots"`
	SlotToElicit string             `json:"slotToElicit"`
	Message      Message            `json:"message"`
}

func (ElicitSlotAction) DialogType() string { return DialogTypeElicitSlot }
func (ElicitSlotAction) isDialogAction()    {}

// MarshalJSON adds the "type" discriminator.
func (a ElicitSlotAction) MarshalJSON() ([]byte, error) {
	type alias ElicitSlotAction
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: DialogTypeElicitSlot, alias: alias(a)})
}

// CloseAction ends the conversation for the current intent.
type CloseAction struct {
	FulfillmentState string        `json:"fulfillmentState"`
	Message          Message       `json:"message"`
	ResponseCard     *ResponseCard `json:"responseCard,omitempty"`
}

func (CloseAction) DialogType() string { return DialogTypeClose }
func (CloseAction) isDialogAction()    {}

// MarshalJSON adds the "type" discriminator.
func (a CloseAction) MarshalJSON() ([]byte, error) {
	type alias CloseAction
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: DialogTypeClose, alias: alias(a)})
}

// Attachments returns the card attachments, or nil when no card is attached.
func (a CloseAction) Attachments() []GenericAttachment {
	if a.ResponseCard == nil {
		return nil
	}
	return a.ResponseCard.GenericAttachments
}

// ResponseCard is a list of generic attachment cards.
type ResponseCard struct {
	Version            int                 `json:"version"`
	ContentType        string              `json:"contentType"`
	GenericAttachments []GenericAttachment `json:"genericAttachments"`
}

// GenericAttachment is a single result card.
type GenericAttachment struct {
	Title             string `json:"title"`
	SubTitle          string `json:"subTitle"`
	ImageURL          string `json:"imageUrl,omitempty"`
	AttachmentLinkURL string `json:"attachmentLinkUrl"`
}
