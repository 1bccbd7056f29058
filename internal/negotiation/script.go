package negotiation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quickcare/quickcare-backend/internal/llm"
	"github.com/quickcare/quickcare-backend/internal/patients"
)

// scriptTurn is the JSON shape the generation prompt demands.
type scriptTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

func confirmTurn() Turn {
	return Turn{Speaker: SpeakerSystem, Text: "Appointment Confirmed", Action: ActionConfirm}
}

// FallbackScript is the fixed dialogue used when generation fails: four
// dialogue turns plus the terminal confirm turn.
func FallbackScript(doctorLabel string) Script {
	return Script{
		{Speaker: SpeakerAgent, Text: fmt.Sprintf("Hi, I'd like to book an appointment with %s.", doctorLabel)},
		{Speaker: SpeakerReceptionist, Text: "Let me check... We are quite busy."},
		{Speaker: SpeakerReceptionist, Text: "We have a slot opening in 20 minutes. Is that okay?"},
		{Speaker: SpeakerAgent, Text: "Yes, that works perfectly. Please book it."},
		confirmTurn(),
	}
}

// generateScript requests a four-turn dialogue from the completion provider
// and appends the terminal confirm turn. Any failure falls back to the fixed
// script; generation never blocks a negotiation.
func (e *Engine) generateScript(ctx context.Context, target Target, profile patients.Profile) Script {
	resp, err := e.client.Complete(ctx, llm.Request{
		Temperature: 0.7,
		Messages: []llm.ChatMessage{
			{Role: llm.ChatRoleUser, Content: buildScriptPrompt(target, profile)},
		},
	})
	if err != nil {
		e.logger.Warn("negotiation script generation failed, using fallback", "error", err)
		return FallbackScript(target.DoctorLabel)
	}

	var raw []scriptTurn
	if err := json.Unmarshal([]byte(llm.StripFences(resp.Text)), &raw); err != nil {
		e.logger.Warn("negotiation script unparseable, using fallback", "error", err)
		return FallbackScript(target.DoctorLabel)
	}
	if len(raw) == 0 {
		e.logger.Warn("negotiation script empty, using fallback")
		return FallbackScript(target.DoctorLabel)
	}

	script := make(Script, 0, len(raw)+1)
	for _, t := range raw {
		speaker := t.Speaker
		if speaker != SpeakerAgent && speaker != SpeakerReceptionist {
			speaker = SpeakerAgent
		}
		script = append(script, Turn{Speaker: speaker, Text: t.Text})
	}
	return append(script, confirmTurn())
}

func buildScriptPrompt(target Target, profile patients.Profile) string {
	return fmt.Sprintf(`Characters:
1. Agent (Patient's AI): Polite, urgent, trying to book for %s.
2. Receptionist (Clinic AI): Busy but helpful, checking schedule for %s.

Setting: Phone call.
Goal: Book an appointment as soon as possible.
Constraint: The first slot might be taken, negotiate for the next best one (e.g. 15-30 mins later).

Generate a 4-turn dialogue (2 exchanges each).
Format: JSON Array of objects [{ "speaker": "Agent"|"Receptionist", "text": "..." }]

Generate the JSON dialogue now:`, profile.DisplayName(), target.DoctorLabel)
}
