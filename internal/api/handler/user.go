package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-manager-api/pkg/apiErrors"
	"github.com/vfg2006/sales-manager-api/pkg/middleware"
)

// ListUsers lista os usuários, com filtro opcional por role (?role=2)
func ListUsers(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var roleID *int
		if roleParam := r.URL.Query().Get("role"); roleParam != "" {
			parsed, err := strconv.Atoi(roleParam)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Parâmetro role inválido", nil)
				return
			}
			roleID = &parsed
		}

		users, err := service.ListUsers(roleID)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar usuários", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(users)
	}
}

func GetUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "id")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID de usuário inválido", nil)
			return
		}

		user, err := service.GetUserProfile(userID)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário", nil)
			return
		}

		if user == nil {
			apiErrors.WriteError(w, apiErrors.ErrUserNotFound, "Usuário não encontrado", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)
	}
}

// CreateUser é o cadastro público. Sem role no payload o usuário entra
// como cliente; a promoção a vendedor ou admin é feita depois por um admin.
func CreateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user domain.User

		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		created, err := service.CreateUser(&user)
		if err != nil {
			handleAuthError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

// UpdateUser permite que administradores editem qualquer usuário e que os
// demais editem apenas o próprio cadastro, sem alterar role ou ativação
func UpdateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		userID, err := pathID(r, "id")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID de usuário inválido", nil)
			return
		}

		isAdmin := userClaims.UserRoleID == domain.RoleAdmin
		if !isAdmin && userClaims.UserID != userID {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Sem permissão para editar este usuário", nil)
			return
		}

		var req domain.UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		req.ID = userID
		if !isAdmin {
			req.RoleID = nil
			req.Active = nil
		}

		if err := service.UpdateUser(&req); err != nil {
			handleAuthError(w, err)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

func DeleteUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		userID, err := pathID(r, "id")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID de usuário inválido", nil)
			return
		}

		if userClaims.UserID == userID {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Não é possível remover o próprio usuário", nil)
			return
		}

		if err := service.DeleteUser(userID); err != nil {
			handleAuthError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// pathID extrai um parâmetro numérico da rota
func pathID(r *http.Request, name string) (int, error) {
	params := httprouter.ParamsFromContext(r.Context())
	return strconv.Atoi(params.ByName(name))
}
