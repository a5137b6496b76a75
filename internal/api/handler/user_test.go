package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	"github.com/vfg2006/retail-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/retail-dashboard-api/internal/usecases/authenticating/mocks"
	"github.com/vfg2006/retail-dashboard-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(auth *mocks.MockAuthenticator)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "login com sucesso",
			body: `{"email":"ana@example.com","password":"Segura@123"}`,
			setupMock: func(auth *mocks.MockAuthenticator) {
				auth.EXPECT().LoginUser(gomock.Any(), "ana@example.com", "Segura@123").Return("jwt-token", nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "senha incorreta",
			body: `{"email":"ana@example.com","password":"errada"}`,
			setupMock: func(auth *mocks.MockAuthenticator) {
				auth.EXPECT().LoginUser(gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", authenticating.NewUserAuthError(authenticating.ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, 4, "Senha incorreta"))
			},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   apiErrors.ErrInvalidCredentials,
		},
		{
			name: "usuário desativado",
			body: `{"email":"ana@example.com","password":"Segura@123"}`,
			setupMock: func(auth *mocks.MockAuthenticator) {
				auth.EXPECT().LoginUser(gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", authenticating.ErrUserDisabled)
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   apiErrors.ErrUserDisabled,
		},
		{
			name:           "corpo inválido",
			body:           `{"email":`,
			setupMock:      func(auth *mocks.MockAuthenticator) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apiErrors.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			auth := mocks.NewMockAuthenticator(ctrl)
			tt.setupMock(auth)

			req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(tt.body))
			rec := serve(Authentication(auth), nil, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			body := decodeBody(t, rec)
			if tt.expectedCode == "" {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, "jwt-token", body["data"].(map[string]any)["token"])
				return
			}
			assert.Equal(t, tt.expectedCode, body["code"])
		})
	}
}

func TestGetUser_Permissions(t *testing.T) {
	user := &domain.Claims{UserID: 5, UserRoleID: domain.RoleUser}
	admin := &domain.Claims{UserID: 1, UserRoleID: domain.RoleAdmin}

	t.Run("usuário comum não vê outro usuário", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := mocks.NewMockAuthenticator(ctrl)

		req := httptest.NewRequest(http.MethodGet, "/v1/users/9", nil)
		rec := serve(User(auth), user, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("usuário vê o próprio perfil", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := mocks.NewMockAuthenticator(ctrl)
		auth.EXPECT().GetUserProfile(gomock.Any(), 5).Return(&domain.User{ID: 5, Name: "Ana"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/users/5", nil)
		rec := serve(User(auth), user, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin recebe 404 para usuário inexistente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := mocks.NewMockAuthenticator(ctrl)
		auth.EXPECT().GetUserProfile(gomock.Any(), 9).
			Return(nil, authenticating.NewUserAuthError(authenticating.ErrUserNotFound, apiErrors.ErrUserNotFound, 9, ""))

		req := httptest.NewRequest(http.MethodGet, "/v1/users/9", nil)
		rec := serve(User(auth), admin, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("ID inválido", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := mocks.NewMockAuthenticator(ctrl)

		req := httptest.NewRequest(http.MethodGet, "/v1/users/abc", nil)
		rec := serve(User(auth), admin, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrInvalidFormat, decodeBody(t, rec)["code"])
	})
}

func TestListUsers_AdminOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthenticator(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rec := serve(User(auth), &domain.Claims{UserID: 2, UserRoleID: domain.RoleSupervisor}, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	auth.EXPECT().ListUser(gomock.Any()).Return([]*domain.User{{ID: 1}, {ID: 2}}, nil)

	req = httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rec = serve(User(auth), &domain.Claims{UserID: 1, UserRoleID: domain.RoleAdmin}, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["data"], 2)
}

func TestUpdateUser(t *testing.T) {
	t.Run("usuário comum não altera o próprio role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := mocks.NewMockAuthenticator(ctrl)

		req := httptest.NewRequest(http.MethodPut, "/v1/users/5", strings.NewReader(`{"role_id":1}`))
		rec := serve(User(auth), &domain.Claims{UserID: 5, UserRoleID: domain.RoleUser}, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("usuário altera o próprio nome", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := mocks.NewMockAuthenticator(ctrl)
		auth.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *domain.UpdateUserRequest) error {
				assert.Equal(t, 5, req.ID)
				assert.Equal(t, "Ana Maria", *req.Name)
				return nil
			})

		req := httptest.NewRequest(http.MethodPut, "/v1/users/5", strings.NewReader(`{"name":"Ana Maria"}`))
		rec := serve(User(auth), &domain.Claims{UserID: 5, UserRoleID: domain.RoleUser}, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCreateUser_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthenticator(ctrl)
	auth.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		Return(nil, authenticating.NewAuthError(authenticating.ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "Email já cadastrado"))

	req := httptest.NewRequest(http.MethodPost, "/v1/users",
		strings.NewReader(`{"name":"Ana","lastname":"Lopez","email":"ana@example.com","password":"Segura@123"}`))
	rec := serve(User(auth), &domain.Claims{UserID: 1, UserRoleID: domain.RoleAdmin}, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrUserAlreadyExists, decodeBody(t, rec)["code"])
}

func TestChangePassword_OnlySelf(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthenticator(ctrl)

	req := httptest.NewRequest(http.MethodPost, "/v1/users/9/change-password",
		strings.NewReader(`{"current_password":"a","new_password":"b"}`))
	rec := serve(Authentication(auth), &domain.Claims{UserID: 5, UserRoleID: domain.RoleUser}, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	auth.EXPECT().ChangePassword(gomock.Any(), 5, "Antiga@123", "fraca").
		Return(authenticating.NewAuthError(authenticating.ErrWeakPassword, apiErrors.ErrInvalidFormat, "a senha deve conter pelo menos 8 caracteres"))

	req = httptest.NewRequest(http.MethodPost, "/v1/users/5/change-password",
		strings.NewReader(`{"current_password":"Antiga@123","new_password":"fraca"}`))
	rec = serve(Authentication(auth), &domain.Claims{UserID: 5, UserRoleID: domain.RoleUser}, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidFormat, decodeBody(t, rec)["code"])
}

func TestUserStores(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthenticator(ctrl)

	auth.EXPECT().GetUserLinkedStores(gomock.Any(), 5).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/me/stores", nil)
	rec := serve(UserStores(auth), &domain.Claims{UserID: 5, UserRoleID: domain.RoleUser}, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"user_id":5,"cities":[]}}`, rec.Body.String())

	gomock.InOrder(
		auth.EXPECT().ManageUserStores(gomock.Any(), 5, []string{"Madrid", "CDMX"}).Return(nil),
		auth.EXPECT().GetUserLinkedStores(gomock.Any(), 5).Return([]string{"CDMX", "Madrid"}, nil),
	)

	req = httptest.NewRequest(http.MethodPut, "/v1/users/5/stores", strings.NewReader(`{"cities":["Madrid","CDMX"]}`))
	rec = serve(UserStores(auth), &domain.Claims{UserID: 1, UserRoleID: domain.RoleAdmin}, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"user_id":5,"cities":["CDMX","Madrid"]}}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPut, "/v1/users/5/stores", strings.NewReader(`{"cities":["Madrid"]}`))
	rec = serve(UserStores(auth), &domain.Claims{UserID: 5, UserRoleID: domain.RoleUser}, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
