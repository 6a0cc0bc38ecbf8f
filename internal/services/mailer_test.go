package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailer(t *testing.T, handler http.HandlerFunc) (*Mailer, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	m := NewMailer("test-key", "noreply@tunedrop.io")
	m.Endpoint = srv.URL
	return m, srv
}

func TestMailerSendsReleaseStatusEmail(t *testing.T) {
	var got sendGridMailSendRequest
	var auth string

	m, _ := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	})

	err := m.SendReleaseStatusEmail(context.Background(), "artist@example.com", "Midnight EP", "rejected", "clipped master")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", auth)
	require.Len(t, got.Personalizations, 1)
	require.Len(t, got.Personalizations[0].To, 1)
	assert.Equal(t, "artist@example.com", got.Personalizations[0].To[0].Email)
	assert.Equal(t, "Release update: Midnight EP", got.Personalizations[0].Subject)
	assert.Equal(t, "noreply@tunedrop.io", got.From.Email)
	require.Len(t, got.Content, 1)
	assert.Contains(t, got.Content[0].Value, "clipped master")
}

func TestMailerRejectsNonAccepted(t *testing.T) {
	m, _ := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	err := m.SendUserEmail(context.Background(), "user@example.com", "Hello", "Body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestMailerRequiresConfig(t *testing.T) {
	m := NewMailer("", "noreply@tunedrop.io")
	err := m.SendUserEmail(context.Background(), "user@example.com", "Hello", "Body")
	require.Error(t, err)

	m = NewMailer("key", "")
	err = m.SendUserEmail(context.Background(), "user@example.com", "Hello", "Body")
	require.Error(t, err)

	m = NewMailer("key", "noreply@tunedrop.io")
	err = m.SendUserEmail(context.Background(), "  ", "Hello", "Body")
	require.Error(t, err)
}

func TestMailerAppealDecisionSubjects(t *testing.T) {
	var subjects []string
	m, _ := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		var req sendGridMailSendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		subjects = append(subjects, req.Personalizations[0].Subject)
		w.WriteHeader(http.StatusAccepted)
	})

	require.NoError(t, m.SendAppealDecisionEmail(context.Background(), "user@example.com", true, ""))
	require.NoError(t, m.SendAppealDecisionEmail(context.Background(), "user@example.com", false, "repeat violations"))

	require.Len(t, subjects, 2)
	assert.Equal(t, "Your account has been reinstated", subjects[0])
	assert.Equal(t, "Your account appeal was denied", subjects[1])
}
