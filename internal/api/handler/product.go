package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/internal/usecases/catalog"
	"github.com/vfg2006/sales-manager-api/pkg/apiErrors"
)

func ListProducts(service catalog.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := service.List()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar produtos", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(products)
	}
}

func GetProduct(service catalog.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathID(r, "id")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID de produto inválido", nil)
			return
		}

		product, err := service.Get(productID)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(product)
	}
}

func CreateProduct(service catalog.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var product domain.Product

		if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		created, err := service.Create(&product)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func UpdateProduct(service catalog.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathID(r, "id")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID de produto inválido", nil)
			return
		}

		var req domain.UpdateProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		req.ID = productID

		updated, err := service.Update(&req)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteProduct(service catalog.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathID(r, "id")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID de produto inválido", nil)
			return
		}

		if err := service.Delete(productID); err != nil {
			handleCatalogError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Produto não encontrado", nil)
	case errors.Is(err, catalog.ErrMissingRequiredData):
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
	default:
		logrus.Error(err)
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao acessar produtos", nil)
	}
}
