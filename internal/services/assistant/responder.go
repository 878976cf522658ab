// Package assistant implements the in-app dining assistant: a scripted
// keyword responder plus persistence of the chat history.
package assistant

import "strings"

// Responder produces an assistant reply for a user message.
type Responder interface {
	Reply(message string) string
}

// ScriptedResponder answers from a fixed keyword table. The first rule
// whose keywords match wins, so rule order matters.
type ScriptedResponder struct {
	rules    []rule
	fallback string
}

type rule struct {
	keywords []string
	reply    string
}

// NewScriptedResponder creates the responder with the standard rule set.
func NewScriptedResponder() *ScriptedResponder {
	return &ScriptedResponder{
		rules: []rule{
			{
				keywords: []string{"menu", "food"},
				reply:    "I'd be happy to help you with our menu! We have appetizers, main courses, desserts, and beverages. Would you like me to recommend something specific?",
			},
			{
				keywords: []string{"reservation", "book"},
				reply:    "I can help you make a reservation! You can use the Bookings tab to select a table and time. What date and time were you thinking?",
			},
			{
				keywords: []string{"hours", "open"},
				reply:    "We're open Monday-Thursday 11am-10pm, Friday-Saturday 11am-11pm, and Sunday 10am-9pm. Is there anything else you'd like to know?",
			},
			{
				keywords: []string{"special", "deal"},
				reply:    "Today's specials include our Chef's Recommendation and Happy Hour drinks (50% off from 4-6pm). Check out the featured section on the Home tab!",
			},
		},
		fallback: "Thank you for your message! I'm here to help with menu questions, reservations, restaurant hours, and special offers. How can I assist you?",
	}
}

// Reply matches the message against the rules case-insensitively.
func (s *ScriptedResponder) Reply(message string) string {
	input := strings.ToLower(message)
	for _, r := range s.rules {
		for _, kw := range r.keywords {
			if strings.Contains(input, kw) {
				return r.reply
			}
		}
	}
	return s.fallback
}
