package models_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
)

func TestTurnOnRequestValidate(t *testing.T) {
	t.Run("accepts url and title", func(t *testing.T) {
		req := models.TurnOnRequest{
			StreamURL: "https://stream.example.com/live.m3u8",
			Title:     "Culto de Domingo",
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects empty stream url", func(t *testing.T) {
		req := models.TurnOnRequest{Title: "Culto de Domingo"}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects whitespace-only stream url", func(t *testing.T) {
		req := models.TurnOnRequest{StreamURL: "   ", Title: "Culto"}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects empty title", func(t *testing.T) {
		req := models.TurnOnRequest{StreamURL: "https://stream.example.com/live.m3u8"}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects oversized title", func(t *testing.T) {
		req := models.TurnOnRequest{
			StreamURL: "https://stream.example.com/live.m3u8",
			Title:     strings.Repeat("a", 201),
		}
		assert.Error(t, req.Validate())
	})
}

func TestUpdateConfigRequestValidate(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	t.Run("empty patch is valid", func(t *testing.T) {
		req := models.UpdateConfigRequest{}
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects blanking the title", func(t *testing.T) {
		req := models.UpdateConfigRequest{Title: strPtr("  ")}
		assert.Error(t, req.Validate())
	})

	t.Run("trims present fields", func(t *testing.T) {
		req := models.UpdateConfigRequest{Title: strPtr("  Culto  ")}
		require.NoError(t, req.Validate())
		assert.Equal(t, "Culto", *req.Title)
	})

	t.Run("rejects oversized offline message", func(t *testing.T) {
		req := models.UpdateConfigRequest{OfflineMessage: strPtr(strings.Repeat("a", 501))}
		assert.Error(t, req.Validate())
	})

	t.Run("next event needs title and start time", func(t *testing.T) {
		req := models.UpdateConfigRequest{NextEvent: &models.NextEvent{Title: "Vigília"}}
		assert.Error(t, req.Validate())

		req = models.UpdateConfigRequest{NextEvent: &models.NextEvent{StartsAt: time.Now()}}
		assert.Error(t, req.Validate())

		req = models.UpdateConfigRequest{NextEvent: &models.NextEvent{
			Title:    "Vigília",
			StartsAt: time.Now().Add(24 * time.Hour),
		}}
		assert.NoError(t, req.Validate())
	})
}

func TestPostMessageRequestValidate(t *testing.T) {
	t.Run("accepts normal message", func(t *testing.T) {
		req := models.PostMessageRequest{SessionID: "abc", Content: "Amém!"}
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects empty content", func(t *testing.T) {
		req := models.PostMessageRequest{SessionID: "abc", Content: "   "}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects content above 500 runes", func(t *testing.T) {
		req := models.PostMessageRequest{SessionID: "abc", Content: strings.Repeat("a", 501)}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects profanity", func(t *testing.T) {
		req := models.PostMessageRequest{SessionID: "abc", Content: "que merda"}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects missing session id", func(t *testing.T) {
		req := models.PostMessageRequest{Content: "oi"}
		assert.Error(t, req.Validate())
	})
}

func TestSubscribeRequestValidate(t *testing.T) {
	t.Run("normalizes to lowercase address", func(t *testing.T) {
		req := models.SubscribeRequest{Email: "  Maria@Example.COM "}
		require.NoError(t, req.Validate())
		assert.Equal(t, "maria@example.com", req.Email)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		req := models.SubscribeRequest{Email: "nao é email"}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects empty", func(t *testing.T) {
		req := models.SubscribeRequest{}
		assert.Error(t, req.Validate())
	})
}
