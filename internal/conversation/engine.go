package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sunsweeper/sunsweeper-ai-platform/internal/knowledge"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/outcome"
	"github.com/sunsweeper/sunsweeper-ai-platform/pkg/logging"
)

// SafeFailMessage is returned for every turn when reference data could
// not be loaded. The engine fails closed: no answers, no quotes, human
// handoff only.
const SafeFailMessage = "I'm having trouble accessing our pricing details. Let me connect you with a human."

const defaultFieldPrompt = "Could you share a bit more detail?"

// Engine is the deterministic conversation orchestrator. It holds only
// immutable reference data and an outcome recorder; per-conversation
// state lives with the caller, so one Engine serves any number of
// concurrent conversations.
type Engine struct {
	store    *knowledge.Store
	recorder *outcome.Recorder
	logger   *logging.Logger
	now      func() time.Time
}

// EngineOption customizes engine construction.
type EngineOption func(*Engine)

// WithClock overrides the engine's time source. Tests use this to pin
// booking timestamps and year resolution for undated month/day inputs.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine. A nil store puts the engine into
// fail-closed mode: every turn returns SafeFailMessage and escalates.
func NewEngine(store *knowledge.Store, recorder *outcome.Recorder, logger *logging.Logger, opts ...EngineOption) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{
		store:    store,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle runs one conversational turn: it folds the new utterance into
// the slot map, classifies intent, and produces either an answer, a
// clarifying question, a quote, a booking confirmation, or an escalation
// reply, along with the updated state. Handle never mutates prior and
// retains no reference to the returned state.
func (e *Engine) Handle(ctx context.Context, conversationID, message string, prior State) (string, State) {
	next := prior.clone()
	if next.Slots == nil {
		next.Slots = map[string]string{}
	}
	if next.Outcome == "" {
		next.Outcome = OutcomeGeneral
	}

	if e.store == nil {
		next.NeedsHumanFollowup = true
		next.Outcome = OutcomeFollowup
		if next.EscalationReason == "" {
			next.EscalationReason = ReasonKnowledgeUnavailable
		}
		e.record(ctx, conversationID, &next, nil)
		return SafeFailMessage, next
	}

	// 1. Fold new slot values in; filled fields never change. A short
	// reply to the field we just asked for is credited to that field
	// even when no standalone pattern matches it.
	updateContactSlots(message, &next)
	updateBookingSlots(message, &next)
	if prior.LastPromptedField != "" && next.slot(prior.LastPromptedField) == "" {
		applyDirectReply(prior.LastPromptedField, message, &next)
	}

	// 2. Classify and accumulate intent.
	next.Intent = ClassifyIntent(message)
	next.addIntent(next.Intent)

	// 3. Resolve service; a new match overrides, otherwise sticky.
	if svc := e.store.ResolveService(message); svc != nil {
		next.ServiceID = svc.ID
	}

	// 4. Escalation triggers, each independently sufficient.
	if reason, ok := detectTriggerPhrase(message); ok {
		return e.escalate(ctx, conversationID, &next, reason), next
	}
	if next.Intent == IntentFollowup {
		return e.escalate(ctx, conversationID, &next, ReasonFollowupRequested), next
	}
	if prior.LastPromptedField != "" && IsRefusal(message) {
		return e.escalate(ctx, conversationID, &next, ReasonFieldRefusal), next
	}

	// Sticky followup: keep collecting handoff contact preferences
	// before anything else. The check is against the prior turn so the
	// closing acknowledgement goes out on the turn that completes the
	// collection.
	if next.NeedsHumanFollowup && len(prior.missingContactFields()) > 0 {
		next.Outcome = OutcomeFollowup
		reply := escalationReply(&next)
		e.record(ctx, conversationID, &next, next.missingContactFields())
		return reply, next
	}

	if next.Intent == IntentServiceInfo {
		return e.serviceInfoReply(ctx, conversationID, &next), next
	}

	if e.quoteFlowActive(&next) {
		return e.quoteFlow(ctx, conversationID, &next), next
	}

	// General chit-chat: nothing deterministic to do. The caller may
	// route this to the generative fallback.
	if !next.NeedsHumanFollowup && next.Outcome != OutcomeBooked {
		next.Outcome = OutcomeGeneral
	}
	reply := fmt.Sprintf("Thanks for reaching out to %s! Ask me about our services, pricing, or booking a visit.", e.store.Company.Name)
	e.record(ctx, conversationID, &next, nil)
	return reply, next
}

// quoteFlowActive reports whether this turn belongs in the pricing or
// booking pipeline: either the current utterance asks for it, or an
// earlier turn did and the flow has not finished collecting.
func (e *Engine) quoteFlowActive(st *State) bool {
	if st.Intent == IntentPricing || st.Intent == IntentBooking {
		return true
	}
	if st.hasIntent(IntentBooking) && st.Booking == nil {
		return true
	}
	if st.hasIntent(IntentPricing) && st.slot(slotQuoteTotal) == "" {
		return true
	}
	return false
}

// slotQuoteTotal records that a standalone quote was already delivered,
// ending the pricing flow until the customer asks again.
const slotQuoteTotal = "quote_total_usd"

// quoteFlow handles pricing quotes and booking collection: resolve the
// service, secure a panel count, price it exactly, then either quote or
// keep collecting booking fields one at a time.
func (e *Engine) quoteFlow(ctx context.Context, conversationID string, next *State) string {
	svc := e.store.ServiceByID(next.ServiceID)
	if svc == nil {
		next.LastPromptedField = ""
		next.Outcome = outcomeUnlessEscalated(next, OutcomeGeneral)
		reply := fmt.Sprintf("Which service do you mean: %s?", e.catalogNames())
		e.record(ctx, conversationID, next, nil)
		return reply
	}

	// Panel count must be a positive integer; anything else is treated
	// as absent and re-prompted.
	count, err := strconv.Atoi(next.slot(SlotPanelCount))
	if err != nil || count <= 0 {
		next.clearSlot(SlotPanelCount)
		return e.promptForField(ctx, conversationID, next, svc, SlotPanelCount)
	}

	quote, ok := ResolvePrice(&e.store.Pricing, e.store.PricingSource, count)
	if !ok {
		return e.escalate(ctx, conversationID, next, ReasonPanelCountNotInTable)
	}

	wantsBooking := next.hasIntent(IntentBooking)
	if !wantsBooking {
		next.setSlot(slotQuoteTotal, strconv.FormatFloat(quote.TotalUSD, 'f', -1, 64))
		next.LastPromptedField = ""
		if !next.NeedsHumanFollowup {
			next.Outcome = OutcomeGeneral
		}
		reply := fmt.Sprintf("Cleaning %d panels comes to %s. Want me to book a visit?", count, FormatUSD(quote.TotalUSD))
		e.record(ctx, conversationID, next, nil)
		return reply
	}

	// Booking collection: ask for exactly the first missing required
	// field, in the service's declared order, one per turn.
	for _, field := range svc.RequiredFields() {
		if next.slot(field.Field) == "" {
			return e.promptForField(ctx, conversationID, next, svc, field.Field)
		}
	}

	// Requested date must resolve to a weekday before hours can be
	// checked; a date that cannot is re-prompted.
	day, ok := weekdayFromDate(next.slot(SlotRequestedDate), e.now())
	if !ok {
		next.clearSlot(SlotRequestedDate)
		return e.promptForField(ctx, conversationID, next, svc, SlotRequestedDate)
	}

	requestedTime := next.slot(SlotTime)
	if !WithinHours(day, requestedTime, &e.store.Hours) {
		next.clearSlot(SlotTime)
		next.LastPromptedField = SlotTime
		next.Outcome = outcomeUnlessEscalated(next, OutcomeGeneral)
		reply := fmt.Sprintf("We aren't available %s at %s. What other time works for you?", titleDay(day), requestedTime)
		e.record(ctx, conversationID, next, []string{SlotTime})
		return reply
	}

	next.Booking = &BookingRecord{
		ServiceID:     svc.ID,
		ClientName:    next.slot(SlotClientName),
		Address:       next.slot(SlotAddress),
		PanelCount:    count,
		Location:      next.slot(SlotLocation),
		Phone:         next.slot(SlotPhone),
		Email:         next.slot(SlotEmail),
		RequestedDate: next.slot(SlotRequestedDate),
		Time:          requestedTime,
		TotalUSD:      quote.TotalUSD,
		PricingSource: quote.PricingSource,
		CreatedAt:     e.now().UTC(),
	}
	next.Outcome = OutcomeBooked
	next.NeedsHumanFollowup = false
	next.EscalationReason = ""
	next.LastPromptedField = ""

	reply := fmt.Sprintf("You're all set, %s! %s for %d panels on %s at %s, total %s. A confirmation is on its way to %s.",
		firstName(next.slot(SlotClientName)), svc.Name, count, next.slot(SlotRequestedDate), requestedTime,
		FormatUSD(quote.TotalUSD), next.slot(SlotEmail))
	e.record(ctx, conversationID, next, nil)
	return reply
}

// serviceInfoReply answers with the resolved service's stored
// description, or lists the catalog when no service is resolved yet.
func (e *Engine) serviceInfoReply(ctx context.Context, conversationID string, next *State) string {
	if !next.NeedsHumanFollowup && next.Outcome != OutcomeBooked {
		next.Outcome = OutcomeGeneral
	}
	var reply string
	if svc := e.store.ServiceByID(next.ServiceID); svc != nil {
		reply = fmt.Sprintf("%s: %s", svc.Name, svc.ShortDescription)
	} else {
		reply = fmt.Sprintf("We offer %s. Which would you like to hear about?", e.catalogNames())
	}
	e.record(ctx, conversationID, next, nil)
	return reply
}

// promptForField asks for one missing field using its catalog label.
func (e *Engine) promptForField(ctx context.Context, conversationID string, next *State, svc *knowledge.Service, field string) string {
	next.LastPromptedField = field
	next.Outcome = outcomeUnlessEscalated(next, OutcomeGeneral)
	e.record(ctx, conversationID, next, []string{field})
	return fieldPrompt(svc, field)
}

// escalate flags the conversation for human handoff and phrases the next
// contact-collection prompt.
func (e *Engine) escalate(ctx context.Context, conversationID string, next *State, reason EscalationReason) string {
	next.NeedsHumanFollowup = true
	if next.EscalationReason == "" {
		next.EscalationReason = reason
	}
	next.Outcome = OutcomeFollowup
	reply := escalationReply(next)
	e.record(ctx, conversationID, next, next.missingContactFields())
	return reply
}

func (e *Engine) record(ctx context.Context, conversationID string, st *State, missing []string) {
	slots := make(map[string]string, len(st.Slots))
	for k, v := range st.Slots {
		slots[k] = v
	}
	e.recorder.Record(ctx, outcome.Record{
		ConversationID:   conversationID,
		OutcomeType:      string(st.Outcome),
		DetectedIntents:  st.intentStrings(),
		ServiceID:        st.ServiceID,
		CollectedSlots:   slots,
		Summary:          buildSummary(st),
		EscalationReason: string(st.EscalationReason),
		MissingFields:    missing,
	})
}

// catalogNames renders the service catalog for "which service" prompts.
func (e *Engine) catalogNames() string {
	names := make([]string, len(e.store.Services))
	for i := range e.store.Services {
		names[i] = e.store.Services[i].Name
	}
	return strings.Join(names, ", ")
}

// buildSummary condenses collected state for the outcome log.
func buildSummary(st *State) string {
	var parts []string
	if st.ServiceID != "" {
		parts = append(parts, "Service: "+st.ServiceID)
	}
	if v := st.slot(SlotPanelCount); v != "" {
		parts = append(parts, "Panels: "+v)
	}
	if v := st.slot(SlotAddress); v != "" {
		parts = append(parts, "Address: "+v)
	}
	if date, clock := st.slot(SlotRequestedDate), st.slot(SlotTime); date != "" && clock != "" {
		parts = append(parts, "Preferred: "+date+" "+clock)
	}
	return strings.Join(parts, " | ")
}

// fieldPrompt returns the catalog label for a field, falling back to a
// generic ask.
func fieldPrompt(svc *knowledge.Service, field string) string {
	for _, entry := range svc.RequiredForQuote {
		if entry.Field == field {
			return entry.Label
		}
	}
	if field == SlotPanelCount {
		return "How many solar panels need cleaning?"
	}
	return defaultFieldPrompt
}

// hasIntent reports whether the intent was seen at any point in the
// conversation.
func (s *State) hasIntent(intent Intent) bool {
	for _, seen := range s.ActiveIntents {
		if seen == intent {
			return true
		}
	}
	return false
}

func outcomeUnlessEscalated(st *State, fallback Outcome) Outcome {
	if st.NeedsHumanFollowup {
		return OutcomeFollowup
	}
	if st.Outcome == OutcomeBooked {
		return OutcomeBooked
	}
	return fallback
}

func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}

func titleDay(day string) string {
	if day == "" {
		return day
	}
	return strings.ToUpper(day[:1]) + day[1:]
}
