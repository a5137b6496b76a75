package handler

import (
	"net/http"

	"github.com/vfg2006/retail-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/retail-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/retail-dashboard-api/pkg/log"
	"github.com/vfg2006/retail-dashboard-api/pkg/middleware"
)

type UserStoresRequest struct {
	Cities []string `json:"cities"`
}

type UserStoresResponse struct {
	UserID int      `json:"user_id"`
	Cities []string `json:"cities"`
}

// GetMyStores retorna as cidades vinculadas ao usuário logado
func GetMyStores(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims := middleware.ClaimsFromContext(r.Context())
		if userClaims == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		stores, err := service.GetUserLinkedStores(r.Context(), userClaims.UserID)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao buscar lojas vinculadas")
			writeAuthError(w, err, "Erro ao buscar lojas vinculadas")
			return
		}
		if stores == nil {
			stores = []string{}
		}

		apiErrors.WriteSuccess(w, http.StatusOK, UserStoresResponse{UserID: userClaims.UserID, Cities: stores})
	}
}

// UpdateUserStores substitui as lojas vinculadas a um usuário
func UpdateUserStores(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userIDParam(w, r)
		if !ok {
			return
		}

		var req UserStoresRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if err := service.ManageUserStores(r.Context(), id, req.Cities); err != nil {
			log.ForContext(r.Context()).WithError(err).WithField("user_id", id).Error("Erro ao vincular lojas")
			writeAuthError(w, err, "Erro ao vincular lojas")
			return
		}

		stores, err := service.GetUserLinkedStores(r.Context(), id)
		if err != nil {
			writeAuthError(w, err, "Erro ao buscar lojas vinculadas")
			return
		}
		if stores == nil {
			stores = []string{}
		}

		apiErrors.WriteSuccess(w, http.StatusOK, UserStoresResponse{UserID: id, Cities: stores})
	}
}
