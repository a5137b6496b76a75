package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/retail-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/retail-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/retail-dashboard-api/pkg/log"
	"github.com/vfg2006/retail-dashboard-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type GeneratePasswordResponse struct {
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func Login(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		token, err := service.LoginUser(r.Context(), req.Email, req.Password)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Falha no login")
			writeAuthError(w, err, "Erro interno ao realizar login")
			return
		}

		apiErrors.WriteSuccess(w, http.StatusOK, LoginResponse{Token: token})
	}
}

// GetMe retorna as informações do usuário logado
func GetMe(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims := middleware.ClaimsFromContext(r.Context())
		if userClaims == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		user, err := service.GetUserProfile(r.Context(), userClaims.UserID)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao obter dados do usuário")
			writeAuthError(w, err, "Erro ao obter dados do usuário")
			return
		}

		apiErrors.WriteSuccess(w, http.StatusOK, user)
	}
}

// writeAuthError usa o código carregado pelo AuthError; erros sem código viram SRV_001
func writeAuthError(w http.ResponseWriter, err error, fallbackMessage string) {
	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		message := authErr.Error()
		var details any
		if authErr.UserID != 0 {
			details = map[string]any{"user_id": authErr.UserID}
		}
		apiErrors.WriteError(w, authenticating.CodeOf(err, apiErrors.ErrInternalServer), message, details)
		return
	}

	switch {
	case errors.Is(err, authenticating.ErrInvalidCredentials):
		apiErrors.WriteError(w, apiErrors.ErrInvalidCredentials, "Credenciais inválidas", nil)
	case errors.Is(err, authenticating.ErrUserDisabled):
		apiErrors.WriteError(w, apiErrors.ErrUserDisabled, "Usuário desativado", nil)
	case errors.Is(err, authenticating.ErrUserNotFound):
		apiErrors.WriteError(w, apiErrors.ErrUserNotFound, "Usuário não encontrado", nil)
	default:
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallbackMessage, nil)
	}
}

// userIDParam lê o :id da rota e já responde com erro quando inválido
func userIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if idStr == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do usuário não fornecido", nil)
		return 0, false
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		log.ForContext(r.Context()).WithError(err).Warn("ID do usuário inválido")
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do usuário inválido", nil)
		return 0, false
	}

	return id, true
}

// ChangePassword permite que o usuário altere a própria senha
func ChangePassword(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetUserID, ok := userIDParam(w, r)
		if !ok {
			return
		}

		userClaims := middleware.ClaimsFromContext(r.Context())
		if userClaims == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Não autorizado", nil)
			return
		}

		var req ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if userClaims.UserID != targetUserID {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Não autorizado a alterar a senha de outro usuário", nil)
			return
		}

		if err := service.ChangePassword(r.Context(), targetUserID, req.CurrentPassword, req.NewPassword); err != nil {
			log.ForContext(r.Context()).WithError(err).WithField("user_id", targetUserID).Warn("Erro ao alterar senha")
			writeAuthError(w, err, "Erro ao alterar senha")
			return
		}

		apiErrors.WriteSuccess(w, http.StatusOK, map[string]string{"message": "Senha alterada com sucesso"})
	}
}

// GeneratePassword gera uma senha forte para outro usuário. Apenas administradores.
func GeneratePassword(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims := middleware.ClaimsFromContext(r.Context())
		if userClaims == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Não autorizado", nil)
			return
		}

		targetUserID, ok := userIDParam(w, r)
		if !ok {
			return
		}

		newPassword, err := service.GenerateStrongPassword(r.Context(), userClaims.UserID, targetUserID)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao gerar senha")
			writeAuthError(w, err, "Erro ao gerar senha")
			return
		}

		apiErrors.WriteSuccess(w, http.StatusOK, GeneratePasswordResponse{Password: newPassword})
	}
}
