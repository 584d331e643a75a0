package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shamik143/mindfulcompanion/internal/models"
)

func TestRemoteGeneratorSuccess(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate-empathetic-response", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"response":"  It sounds like today really wore you down. What felt heaviest?  "}`))
	}))
	defer server.Close()

	g := NewRemoteGenerator(server.URL, 5*time.Second, zap.NewNop())
	history := []*models.Utterance{
		{Role: models.RoleUser, Content: "rough day at work"},
		{Role: models.RoleAssistant, Content: "That sounds hard."},
		{Role: models.RoleUser, Content: "I just feel drained"},
	}
	emotion := &models.EmotionResult{
		Primary:  "sadness",
		Emotions: []models.EmotionScore{{Emotion: "sadness", Confidence: 0.78}},
		Valence:  -0.7,
		Arousal:  0.3,
	}

	reply := g.Generate(context.Background(), history, emotion, "Sam")

	assert.Equal(t, "It sounds like today really wore you down. What felt heaviest?", reply)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[1].Role)
	assert.Equal(t, "Sam", got.UserName)
	require.NotNil(t, got.EmotionData)
	assert.Equal(t, "sadness", got.EmotionData.Primary)
	assert.InDelta(t, 0.78, got.EmotionData.Confidence, 0.001)
}

func TestRemoteGeneratorServerErrorReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := NewRemoteGenerator(server.URL, 5*time.Second, zap.NewNop())
	reply := g.Generate(context.Background(), nil, nil, "")
	assert.Empty(t, reply)
}

func TestRemoteGeneratorTransportErrorReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	g := NewRemoteGenerator(server.URL, time.Second, zap.NewNop())
	reply := g.Generate(context.Background(), nil, nil, "")
	assert.Empty(t, reply)
}

func TestRemoteGeneratorOmitsEmotionWhenNil(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"response":"I hear you."}`))
	}))
	defer server.Close()

	g := NewRemoteGenerator(server.URL, 5*time.Second, zap.NewNop())
	g.Generate(context.Background(), []*models.Utterance{{Role: models.RoleUser, Content: "hi"}}, nil, "")

	assert.Nil(t, got.EmotionData)
	assert.Empty(t, got.UserName)
}
