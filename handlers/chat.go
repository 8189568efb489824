package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/services"
)

// ChatHandler — chat da transmissão ao vivo.
type ChatHandler struct {
	chatService services.ChatService
}

// NewChatHandler, constructor.
func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ListMessages — GET /api/live/messages?limit=50.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusBadRequest, "limit inválido")
			return
		}
		limit = parsed
	}

	messages, err := h.chatService.ListRecent(r.Context(), limit)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, messages)
}

// PostMessage — POST /api/live/messages.
// O fallback REST do chat; quem está no WebSocket manda por lá.
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req models.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	msg, err := h.chatService.Post(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, msg)
}
