// Package handlers holds the HTTP handlers for the chat API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sunsweeper/sunsweeper-ai-platform/internal/conversation"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/knowledge"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/leads"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/llm"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/notify"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/observability/metrics"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/sessions"
	"github.com/sunsweeper/sunsweeper-ai-platform/pkg/logging"
)

// slotLeadID marks a conversation whose lead was already captured, so
// repeated turns do not duplicate rows.
const slotLeadID = "lead_id"

// BookingSheetAppender appends a confirmed booking to the crew sheet.
type BookingSheetAppender interface {
	AppendBooking(ctx context.Context, booking conversation.BookingRecord) error
}

// ChatRequest is the inbound turn.
type ChatRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

// ChatResponse is the turn result. State is echoed back so stateless
// clients can resend it; server-side session storage makes that
// optional.
type ChatResponse struct {
	ConversationID     string             `json:"conversation_id"`
	Reply              string             `json:"reply"`
	Outcome            string             `json:"outcome"`
	NeedsHumanFollowup bool               `json:"needs_human_followup"`
	State              conversation.State `json:"state"`
}

// ChatHandler serves the conversational endpoint. The deterministic
// engine always runs first; the LLM is consulted only for general
// chit-chat turns the engine has nothing to say about.
type ChatHandler struct {
	engine   *conversation.Engine
	store    *knowledge.Store
	sessions sessions.Store
	llm      llm.Client
	email    notify.EmailSender
	sheet    BookingSheetAppender
	leads    leads.Repository
	metrics  *metrics.ConversationMetrics
	logger   *logging.Logger
	tracer   trace.Tracer

	operatorEmail string
}

// ChatHandlerConfig wires the handler's collaborators. Engine and
// Sessions are required; everything else degrades gracefully when nil.
type ChatHandlerConfig struct {
	Engine        *conversation.Engine
	Knowledge     *knowledge.Store
	Sessions      sessions.Store
	LLM           llm.Client
	Email         notify.EmailSender
	Sheet         BookingSheetAppender
	Leads         leads.Repository
	Metrics       *metrics.ConversationMetrics
	Logger        *logging.Logger
	OperatorEmail string
}

// NewChatHandler builds the handler.
func NewChatHandler(cfg ChatHandlerConfig) *ChatHandler {
	if cfg.Engine == nil {
		panic("handlers: engine required")
	}
	if cfg.Sessions == nil {
		panic("handlers: session store required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{
		engine:        cfg.Engine,
		store:         cfg.Knowledge,
		sessions:      cfg.Sessions,
		llm:           cfg.LLM,
		email:         cfg.Email,
		sheet:         cfg.Sheet,
		leads:         cfg.Leads,
		metrics:       cfg.Metrics,
		logger:        logger,
		tracer:        otel.Tracer("sunsweeper.internal.http.chat"),
		operatorEmail: cfg.OperatorEmail,
	}
}

// HandleChat processes one conversational turn.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "chat.turn")
	defer span.End()

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("sunsweeper.conversation_id", conversationID))

	prior, err := h.sessions.Load(ctx, conversationID)
	if err != nil {
		if !errors.Is(err, sessions.ErrNotFound) {
			h.logger.Error("session load failed", "error", err, "conversation_id", conversationID)
		}
		prior = conversation.NewState()
	}

	start := time.Now()
	reply, next := h.engine.Handle(ctx, conversationID, req.Message, prior)
	h.metrics.ObserveTurnLatency(string(next.Intent), time.Since(start).Seconds())
	h.metrics.ObserveTurn(string(next.Intent), string(next.Outcome))

	if next.NeedsHumanFollowup && !prior.NeedsHumanFollowup {
		h.metrics.ObserveEscalation(string(next.EscalationReason))
	}

	if next.Booking != nil && prior.Booking == nil {
		h.metrics.ObserveBooking()
		h.dispatchBooking(ctx, *next.Booking)
	}

	h.captureLead(ctx, conversationID, &next)

	reply = h.maybeGenerativeReply(ctx, reply, req.Message, &next)

	if err := h.sessions.Save(ctx, conversationID, next); err != nil {
		h.logger.Error("session save failed", "error", err, "conversation_id", conversationID)
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		ConversationID:     conversationID,
		Reply:              reply,
		Outcome:            string(next.Outcome),
		NeedsHumanFollowup: next.NeedsHumanFollowup,
		State:              next,
	})
}

// dispatchBooking sends the confirmation email and appends the crew
// sheet row. Failures are logged; the booking itself already succeeded.
func (h *ChatHandler) dispatchBooking(ctx context.Context, booking conversation.BookingRecord) {
	if h.email != nil && booking.Email != "" {
		msg := notify.BookingConfirmation(h.companyName(), booking)
		if err := h.email.Send(ctx, msg); err != nil {
			h.logger.Error("booking confirmation email failed", "error", err, "to", booking.Email)
		}
	}
	if h.sheet != nil {
		if err := h.sheet.AppendBooking(ctx, booking); err != nil {
			h.logger.Error("booking sheet append failed", "error", err)
		}
	}
}

// captureLead files a lead once per conversation, as soon as the
// customer is reachable and the conversation is not a confirmed
// booking. Escalated conversations also alert the operator.
func (h *ChatHandler) captureLead(ctx context.Context, conversationID string, next *conversation.State) {
	if h.leads == nil || next.Booking != nil {
		return
	}
	if next.Slots[slotLeadID] != "" {
		return
	}
	email := next.Slots[conversation.SlotEmail]
	phone := next.Slots[conversation.SlotPhone]
	if email == "" && phone == "" {
		return
	}
	if !next.NeedsHumanFollowup && next.Outcome != conversation.OutcomeGeneral {
		return
	}

	lead, err := h.leads.Create(ctx, &leads.CreateLeadRequest{
		ConversationID: conversationID,
		Name:           next.Slots[conversation.SlotClientName],
		Email:          email,
		Phone:          phone,
		ServiceID:      next.ServiceID,
		Outcome:        string(next.Outcome),
		Summary:        fmt.Sprintf("reason=%s", next.EscalationReason),
		Source:         "webchat",
	})
	if err != nil {
		h.logger.Error("lead capture failed", "error", err, "conversation_id", conversationID)
		return
	}
	next.Slots[slotLeadID] = lead.ID
	h.logger.Info("lead captured", "lead_id", lead.ID, "conversation_id", conversationID)

	if next.NeedsHumanFollowup && h.email != nil && h.operatorEmail != "" {
		alert := notify.EscalationAlert(h.companyName(), h.operatorEmail, conversationID, *next)
		if err := h.email.Send(ctx, alert); err != nil {
			h.logger.Error("escalation alert email failed", "error", err)
		}
	}
}

// maybeGenerativeReply swaps the canned general-lead reply for a model
// completion. Pricing, booking, and escalation replies are never
// overridden, and any model failure falls back to the deterministic
// reply.
func (h *ChatHandler) maybeGenerativeReply(ctx context.Context, reply, message string, next *conversation.State) string {
	if h.llm == nil {
		return reply
	}
	if next.Intent != conversation.IntentGeneral || next.Outcome != conversation.OutcomeGeneral || next.NeedsHumanFollowup {
		return reply
	}

	resp, err := h.llm.Complete(ctx, llm.Request{
		System:      []string{h.systemPrompt()},
		Messages:    []llm.ChatMessage{{Role: llm.ChatRoleUser, Content: message}},
		MaxTokens:   256,
		Temperature: 0.4,
	})
	if err != nil {
		h.logger.Warn("generative reply failed, using deterministic fallback", "error", err)
		return reply
	}
	if resp.Text == "" {
		return reply
	}
	return resp.Text
}

func (h *ChatHandler) systemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the assistant for %s, a solar panel cleaning company. ", h.companyName())
	b.WriteString("Keep replies short and friendly. Never state prices, availability, or guarantees; ")
	b.WriteString("for those, tell the customer you can check exact pricing if they share their panel count.")
	if h.store != nil && len(h.store.Services) > 0 {
		names := make([]string, len(h.store.Services))
		for i := range h.store.Services {
			names[i] = h.store.Services[i].Name
		}
		fmt.Fprintf(&b, " Services offered: %s.", strings.Join(names, ", "))
	}
	return b.String()
}

func (h *ChatHandler) companyName() string {
	if h.store != nil && h.store.Company.Name != "" {
		return h.store.Company.Name
	}
	return "SunSweeper"
}

// HandleServices lists the service catalog.
func (h *ChatHandler) HandleServices(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "knowledge unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": h.store.Services})
}

// HealthCheck reports liveness and whether reference data loaded.
func (h *ChatHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if h.store == nil {
		status = "degraded"
	}
	writeJSON(w, code, map[string]string{"status": status})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}
