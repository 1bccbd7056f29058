package notify

import (
	"testing"

	"github.com/quickcare/quickcare-backend/pkg/logging"
)

func TestNewSendGridSender_NoKeyReturnsNil(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{}, logging.Default())
	if sender != nil {
		t.Error("expected nil sender when API key is missing")
	}
}

func TestNewSendGridSender_DefaultsFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromEmail: "noreply@quickcare.dev"}, nil)
	if sender == nil {
		t.Fatal("expected sender")
	}
	if sender.fromName != "QuickCare" {
		t.Errorf("expected default from name, got %q", sender.fromName)
	}
}

func TestSend_NilSenderErrors(t *testing.T) {
	var sender *SendGridSender
	if err := sender.Send(t.Context(), EmailMessage{To: "a@b.c"}); err == nil {
		t.Error("expected error from nil sender")
	}
}
