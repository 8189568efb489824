package models_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
)

func TestRegisterRequestValidate(t *testing.T) {
	t.Run("accepts a normal name", func(t *testing.T) {
		req := models.RegisterRequest{DisplayName: "Maria Silva"}
		require.NoError(t, req.Validate())
	})

	t.Run("accepts accented names counting runes not bytes", func(t *testing.T) {
		// "Jo" tem 2 runas mas 3 bytes — o limite mínimo é por runa
		req := models.RegisterRequest{DisplayName: "Jô"}
		require.NoError(t, req.Validate())
	})

	t.Run("rejects single character name", func(t *testing.T) {
		req := models.RegisterRequest{DisplayName: "A"}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects name above 50 runes", func(t *testing.T) {
		req := models.RegisterRequest{DisplayName: strings.Repeat("a", 51)}
		assert.Error(t, req.Validate())
	})

	t.Run("accepts name at exactly 50 runes", func(t *testing.T) {
		req := models.RegisterRequest{DisplayName: strings.Repeat("a", 50)}
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects digits only", func(t *testing.T) {
		req := models.RegisterRequest{DisplayName: "123"}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects punctuation only", func(t *testing.T) {
		req := models.RegisterRequest{DisplayName: "--!!"}
		assert.Error(t, req.Validate())
	})

	t.Run("accepts digits mixed with letters", func(t *testing.T) {
		req := models.RegisterRequest{DisplayName: "Maria 123"}
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects blocklisted word", func(t *testing.T) {
		req := models.RegisterRequest{DisplayName: "merda"}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects blocklisted word disguised with separators", func(t *testing.T) {
		req := models.RegisterRequest{DisplayName: "m.e.r.d.a"}
		assert.Error(t, req.Validate())
	})

	t.Run("trims surrounding whitespace before validating", func(t *testing.T) {
		req := models.RegisterRequest{DisplayName: "  Ana  "}
		require.NoError(t, req.Validate())
		assert.Equal(t, "Ana", req.DisplayName)
	})

	t.Run("whitespace only fails the length check", func(t *testing.T) {
		req := models.RegisterRequest{DisplayName: "     "}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects malformed email when present", func(t *testing.T) {
		req := models.RegisterRequest{DisplayName: "Maria", Email: "nao-e-email"}
		assert.Error(t, req.Validate())
	})

	t.Run("email is optional", func(t *testing.T) {
		req := models.RegisterRequest{DisplayName: "Maria"}
		assert.NoError(t, req.Validate())
	})
}

func TestSessionIDRequestValidate(t *testing.T) {
	t.Run("rejects empty id", func(t *testing.T) {
		req := models.SessionIDRequest{SessionID: "   "}
		assert.Error(t, req.Validate())
	})

	t.Run("accepts any non-empty id", func(t *testing.T) {
		req := models.SessionIDRequest{SessionID: "abc123"}
		assert.NoError(t, req.Validate())
	})
}
