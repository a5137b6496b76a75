package handler

import (
	"net/http"

	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	"github.com/vfg2006/retail-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/retail-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/retail-dashboard-api/pkg/log"
	"github.com/vfg2006/retail-dashboard-api/pkg/middleware"
)

// GetUser retorna o usuário por ID. Não administradores só enxergam o próprio perfil.
func GetUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userIDParam(w, r)
		if !ok {
			return
		}

		userClaims := middleware.ClaimsFromContext(r.Context())
		if userClaims == nil || (userClaims.UserID != id && !userClaims.IsAdmin()) {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para ver este usuário", nil)
			return
		}

		user, err := service.GetUserProfile(r.Context(), id)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao buscar usuário")
			writeAuthError(w, err, "Erro ao buscar usuário")
			return
		}

		apiErrors.WriteSuccess(w, http.StatusOK, user)
	}
}

// CreateUser cria um novo usuário
func CreateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user *domain.User

		if err := json.NewDecoder(r.Body).Decode(&user); err != nil || user == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if user.Name == "" || user.Email == "" || user.PasswordHash == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Nome, email e senha são obrigatórios", nil)
			return
		}

		created, err := service.CreateUser(r.Context(), user)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao criar usuário")
			writeAuthError(w, err, "Erro ao criar usuário")
			return
		}

		apiErrors.WriteSuccess(w, http.StatusCreated, created)
	}
}

// ListUsers lista todos os usuários
func ListUsers(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := service.ListUser(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao buscar usuários")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar usuários", nil)
			return
		}

		apiErrors.WriteSuccess(w, http.StatusOK, users)
	}
}

// UpdateUser atualiza informações do usuário
func UpdateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userIDParam(w, r)
		if !ok {
			return
		}

		// o usuário pode editar apenas seu próprio perfil, a menos que seja admin
		userClaims := middleware.ClaimsFromContext(r.Context())
		if userClaims == nil || (userClaims.UserID != id && !userClaims.IsAdmin()) {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para editar este usuário", nil)
			return
		}

		var updateReq domain.UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}
		updateReq.ID = id

		if (updateReq.RoleID != nil || updateReq.Active != nil) && !userClaims.IsAdmin() {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas administradores podem alterar o tipo ou o status do usuário", nil)
			return
		}

		if err := service.UpdateUser(r.Context(), &updateReq); err != nil {
			log.ForContext(r.Context()).WithError(err).WithField("user_id", id).Error("Erro ao atualizar usuário")
			writeAuthError(w, err, "Erro ao atualizar usuário")
			return
		}

		apiErrors.WriteSuccess(w, http.StatusOK, map[string]int{"id": id})
	}
}
