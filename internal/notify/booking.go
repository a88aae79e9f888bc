package notify

import (
	"fmt"
	"strings"

	"github.com/sunsweeper/sunsweeper-ai-platform/internal/conversation"
)

// BookingConfirmation builds the customer-facing confirmation email for
// a finalized booking.
func BookingConfirmation(companyName string, booking conversation.BookingRecord) EmailMessage {
	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", booking.ClientName)
	fmt.Fprintf(&body, "Your solar panel cleaning is booked!\n\n")
	fmt.Fprintf(&body, "Panels: %d\n", booking.PanelCount)
	fmt.Fprintf(&body, "Address: %s\n", booking.Address)
	fmt.Fprintf(&body, "Date: %s at %s\n", booking.RequestedDate, booking.Time)
	fmt.Fprintf(&body, "Total: %s\n\n", conversation.FormatUSD(booking.TotalUSD))
	fmt.Fprintf(&body, "We'll see you there.\n%s\n", companyName)

	return EmailMessage{
		To:      booking.Email,
		ToName:  booking.ClientName,
		Subject: fmt.Sprintf("%s booking confirmed for %s", companyName, booking.RequestedDate),
		Body:    body.String(),
	}
}

// EscalationAlert builds the operator-facing email for a conversation
// flagged for human followup.
func EscalationAlert(companyName, operatorEmail, conversationID string, state conversation.State) EmailMessage {
	var body strings.Builder
	fmt.Fprintf(&body, "A conversation needs human followup.\n\n")
	fmt.Fprintf(&body, "Conversation: %s\n", conversationID)
	if state.EscalationReason != "" {
		fmt.Fprintf(&body, "Reason: %s\n", state.EscalationReason)
	}
	if method := state.Slots[conversation.SlotContactMethod]; method != "" {
		fmt.Fprintf(&body, "Preferred contact: %s\n", method)
	}
	if window := state.Slots[conversation.SlotCallbackWindow]; window != "" {
		fmt.Fprintf(&body, "Callback window: %s\n", window)
	}
	if phone := state.Slots[conversation.SlotPhone]; phone != "" {
		fmt.Fprintf(&body, "Phone: %s\n", phone)
	}

	return EmailMessage{
		To:      operatorEmail,
		Subject: fmt.Sprintf("%s: conversation %s needs followup", companyName, conversationID),
		Body:    body.String(),
	}
}
