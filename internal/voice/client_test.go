package voice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		BaseURL:       server.URL,
		APIKey:        "test-key",
		PhoneNumberID: "phone-123",
	})
	require.NoError(t, err)
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestCreateCall(t *testing.T) {
	var got outboundCallBody
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/call/phone", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Call{ID: "call-1", Status: "queued"})
	})

	call, err := client.CreateCall(context.Background(), CallRequest{
		CustomerNumber: "+15550002222",
		DoctorName:     "Dr. Available (Cardiology)",
		PatientName:    "Jane Doe",
		Symptoms:       "chest pain",
	})
	require.NoError(t, err)
	assert.Equal(t, "call-1", call.ID)
	assert.Equal(t, "queued", call.Status)

	assert.Equal(t, "phone-123", got.PhoneNumberID)
	assert.Equal(t, "+15550002222", got.Customer.Number)
	require.Len(t, got.Assistant.Model.Messages, 1)
	briefing := got.Assistant.Model.Messages[0].Content
	assert.Contains(t, briefing, "Jane Doe")
	assert.Contains(t, briefing, "Dr. Available (Cardiology)")
	assert.Contains(t, briefing, "chest pain")
	assert.Equal(t, "Hello, I am calling to book an appointment for a patient.", got.Assistant.FirstMessage)
}

func TestCreateCallRequiresNumber(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request should be made")
	})

	_, err := client.CreateCall(context.Background(), CallRequest{})
	assert.ErrorIs(t, err, ErrMissingPhoneNumber)
}

func TestCreateCallProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "invalid key type"}`))
	})

	_, err := client.CreateCall(context.Background(), CallRequest{CustomerNumber: "+15550002222"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "invalid key type", apiErr.Message)
}

func TestCreateCallProviderErrorWithoutMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream blew up"))
	})

	_, err := client.CreateCall(context.Background(), CallRequest{CustomerNumber: "+15550002222"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "call failed", apiErr.Message)
}
