package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/services"
)

// BroadcastHandler — estado da transmissão (leitura pública, controle admin).
type BroadcastHandler struct {
	broadcastService services.BroadcastService
}

// NewBroadcastHandler, constructor.
func NewBroadcastHandler(broadcastService services.BroadcastService) *BroadcastHandler {
	return &BroadcastHandler{broadcastService: broadcastService}
}

// GetState — GET /api/live/state (público).
// O endpoint mais quente do serviço: toda página aberta chama a cada 10s.
func (h *BroadcastHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.broadcastService.GetState(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, state)
}

// TurnOn — POST /api/admin/live/on.
func (h *BroadcastHandler) TurnOn(w http.ResponseWriter, r *http.Request) {
	var req models.TurnOnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	state, err := h.broadcastService.TurnOn(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, state)
}

// TurnOff — POST /api/admin/live/off. Sem corpo.
func (h *BroadcastHandler) TurnOff(w http.ResponseWriter, r *http.Request) {
	state, err := h.broadcastService.TurnOff(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, state)
}

// UpdateConfig — PATCH /api/admin/live/config.
func (h *BroadcastHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	state, err := h.broadcastService.UpdateConfig(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, state)
}
