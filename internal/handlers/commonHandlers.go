package handlers

import (
	"net/http"

	"geoportal/internal/repositories"
	"geoportal/internal/utils"
)

type CommonHandler struct {
	accountRepo repositories.AccountRepository
}

func NewCommonHandler(accountRepo repositories.AccountRepository) *CommonHandler {
	return &CommonHandler{accountRepo: accountRepo}
}

func (h *CommonHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, h.accountRepo.Health())
}
