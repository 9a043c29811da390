package push_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"roadside/internal/adapters/out/push"
	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecipients(tokens ...string) []ports.Recipient {
	recipients := make([]ports.Recipient, 0, len(tokens))
	for _, token := range tokens {
		recipients = append(recipients, ports.Recipient{
			ProviderID: kernel.NewUUID(), Token: token,
		})
	}
	return recipients
}

func Test_NewFCMGateway_RequiresEndpointAndKey(t *testing.T) {
	_, err := push.NewFCMGateway("", "key", nil)
	assert.Error(t, err)

	_, err = push.NewFCMGateway("https://fcm.example/send", "  ", nil)
	assert.Error(t, err)

	gateway, err := push.NewFCMGateway("https://fcm.example/send", "key", nil)
	require.NoError(t, err)
	assert.NotNil(t, gateway)
}

func Test_SendBatch_EmptyRecipientList_NoRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an empty batch")
	}))
	defer server.Close()

	gateway, err := push.NewFCMGateway(server.URL, "test-key", server.Client())
	require.NoError(t, err)

	result, err := gateway.SendBatch(context.Background(), nil, ports.Notification{Title: "hi"})
	require.NoError(t, err)
	assert.Empty(t, result.Outcomes)
}

func Test_SendBatch_MixedOutcomes(t *testing.T) {
	var captured map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "key=test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": 1,
			"failure": 2,
			"results": [
				{"message_id": "m1"},
				{"error": "NotRegistered"},
				{"error": "InvalidRegistration"}
			]
		}`))
	}))
	defer server.Close()

	gateway, err := push.NewFCMGateway(server.URL, "test-key", server.Client())
	require.NoError(t, err)

	recipients := testRecipients("token-ok", "token-gone", "token-bogus")
	result, err := gateway.SendBatch(context.Background(), recipients, ports.Notification{
		Title: "New job nearby",
		Body:  "engine won't start",
		Data:  map[string]string{"type": "job_offer", "job_id": "abc"},
	})
	require.NoError(t, err)

	assert.Equal(t, []any{"token-ok", "token-gone", "token-bogus"}, captured["registration_ids"])
	notification, ok := captured["notification"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "New job nearby", notification["title"])
	data, ok := captured["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "job_offer", data["type"])

	require.Len(t, result.Outcomes, 3)
	assert.True(t, result.Outcomes[0].Delivered)
	assert.Empty(t, result.Outcomes[0].Reason)
	assert.True(t, result.Outcomes[0].ProviderID.IsEqual(recipients[0].ProviderID))

	assert.False(t, result.Outcomes[1].Delivered)
	assert.Equal(t, ports.ReasonTokenNotRegistered, result.Outcomes[1].Reason)

	assert.False(t, result.Outcomes[2].Delivered)
	assert.Equal(t, ports.ReasonTokenInvalid, result.Outcomes[2].Reason)

	assert.Equal(t, 1, result.SuccessCount())
	assert.Equal(t, 2, result.FailureCount())
	assert.Equal(t, []ports.Recipient{recipients[1], recipients[2]}, result.DeadRecipients())
}

func Test_SendBatch_UnknownErrorKeepsOriginalReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":0,"failure":1,"results":[{"error":"Unavailable"}]}`))
	}))
	defer server.Close()

	gateway, err := push.NewFCMGateway(server.URL, "test-key", server.Client())
	require.NoError(t, err)

	result, err := gateway.SendBatch(context.Background(),
		testRecipients("token"), ports.Notification{Title: "t"})
	require.NoError(t, err)

	require.Len(t, result.Outcomes, 1)
	assert.False(t, result.Outcomes[0].Delivered)
	assert.Equal(t, "Unavailable", result.Outcomes[0].Reason)
	assert.Empty(t, result.DeadRecipients())
}

func Test_SendBatch_NonOKStatus_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	gateway, err := push.NewFCMGateway(server.URL, "wrong-key", server.Client())
	require.NoError(t, err)

	_, err = gateway.SendBatch(context.Background(),
		testRecipients("token"), ports.Notification{Title: "t"})
	assert.ErrorContains(t, err, "401")
}

func Test_SendBatch_ShortResultsArray_MarksRemainingUndelivered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":1,"failure":0,"results":[{"message_id":"m1"}]}`))
	}))
	defer server.Close()

	gateway, err := push.NewFCMGateway(server.URL, "test-key", server.Client())
	require.NoError(t, err)

	result, err := gateway.SendBatch(context.Background(),
		testRecipients("token-a", "token-b"), ports.Notification{Title: "t"})
	require.NoError(t, err)

	require.Len(t, result.Outcomes, 2)
	assert.True(t, result.Outcomes[0].Delivered)
	assert.False(t, result.Outcomes[1].Delivered)
	assert.Empty(t, result.DeadRecipients())
}
