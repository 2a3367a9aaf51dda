package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/internal/usecases/recording"
	"github.com/vfg2006/sales-manager-api/pkg/apiErrors"
	"github.com/vfg2006/sales-manager-api/pkg/middleware"
)

// Os handlers de vendas e compras são os mesmos: ambos recebem um
// recording.RecordService já amarrado à tabela certa.

func ListRecords(service recording.RecordService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, _ := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)

		records, err := service.List(userClaims)
		if err != nil {
			handleRecordError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(records)
	}
}

func GetRecord(service recording.RecordService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, _ := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)

		recordID, err := pathID(r, "id")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID de registro inválido", nil)
			return
		}

		record, err := service.Get(userClaims, recordID)
		if err != nil {
			handleRecordError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(record)
	}
}

func CreateRecord(service recording.RecordService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, _ := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)

		var req domain.CreateRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		record, err := service.Create(userClaims, &req)
		if err != nil {
			handleRecordError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(record)
	}
}

func UpdateRecord(service recording.RecordService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, _ := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)

		recordID, err := pathID(r, "id")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID de registro inválido", nil)
			return
		}

		var req domain.UpdateRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		record, err := service.Update(userClaims, recordID, &req)
		if err != nil {
			handleRecordError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(record)
	}
}

func DeleteRecord(service recording.RecordService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, _ := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)

		recordID, err := pathID(r, "id")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID de registro inválido", nil)
			return
		}

		if err := service.Delete(userClaims, recordID); err != nil {
			handleRecordError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// handleRecordError traduz os erros do caso de uso para os códigos da API
func handleRecordError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recording.ErrUnauthenticated):
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
	case errors.Is(err, recording.ErrForbidden):
		apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Sem permissão para esta operação", nil)
	case errors.Is(err, recording.ErrRecordNotFound):
		apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Registro não encontrado", nil)
	case errors.Is(err, recording.ErrMissingRequiredData):
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Data e ao menos um produto são obrigatórios", nil)
	case errors.Is(err, recording.ErrInvalidLineItems):
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Itens do registro inválidos", nil)
	default:
		logrus.Error(err)
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao acessar registros", nil)
	}
}
