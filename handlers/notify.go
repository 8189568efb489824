package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/services"
)

// NotifyHandler — inscrição no aviso "me avise quando começar".
type NotifyHandler struct {
	notifyService services.NotifyService
}

// NewNotifyHandler, constructor.
func NewNotifyHandler(notifyService services.NotifyService) *NotifyHandler {
	return &NotifyHandler{notifyService: notifyService}
}

// Subscribe — POST /api/live/subscribe.
func (h *NotifyHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req models.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	if err := h.notifyService.Subscribe(r.Context(), &req); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]bool{"subscribed": true})
}

// Unsubscribe — POST /api/live/unsubscribe.
// Reusa SubscribeRequest (só o email) — a validação é a mesma.
func (h *NotifyHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req models.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if err := req.Validate(); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.notifyService.Unsubscribe(r.Context(), req.Email); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]bool{"unsubscribed": true})
}
