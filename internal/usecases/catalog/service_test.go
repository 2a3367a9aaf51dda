package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestService_Create(t *testing.T) {
	t.Run("Produto válido", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockProductRepository(ctrl)
		service := NewService(mockRepo)

		product := &domain.Product{Name: "Banner", Price: decimal.RequireFromString("80.00")}
		mockRepo.EXPECT().CreateProduct(product).Return(product, nil)

		created, err := service.Create(product)
		require.NoError(t, err)
		assert.Equal(t, "Banner", created.Name)
	})

	t.Run("Nome vazio ou preço negativo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockProductRepository(ctrl)
		service := NewService(mockRepo)

		_, err := service.Create(&domain.Product{Price: decimal.RequireFromString("10.00")})
		assert.ErrorIs(t, err, ErrMissingRequiredData)

		_, err = service.Create(&domain.Product{Name: "Banner", Price: decimal.RequireFromString("-1")})
		assert.ErrorIs(t, err, ErrMissingRequiredData)
	})
}

func TestService_Update(t *testing.T) {
	t.Run("Atualização parcial mantém os demais campos", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockProductRepository(ctrl)
		service := NewService(mockRepo)

		mockRepo.EXPECT().
			GetProductByID(3).
			Return(&domain.Product{ID: 3, Name: "Banner", Price: decimal.RequireFromString("80.00")}, nil)

		var saved *domain.Product
		mockRepo.EXPECT().
			UpdateProduct(gomock.Any()).
			DoAndReturn(func(product *domain.Product) error {
				saved = product
				return nil
			})

		newPrice := decimal.RequireFromString("95.00")
		updated, err := service.Update(&domain.UpdateProductRequest{ID: 3, Price: &newPrice})
		require.NoError(t, err)

		assert.Equal(t, "Banner", saved.Name)
		assert.True(t, updated.Price.Equal(newPrice))
	})

	t.Run("Produto inexistente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockProductRepository(ctrl)
		service := NewService(mockRepo)

		mockRepo.EXPECT().GetProductByID(404).Return(nil, nil)

		_, err := service.Update(&domain.UpdateProductRequest{ID: 404})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockProductRepository(ctrl)
	service := NewService(mockRepo)

	mockRepo.EXPECT().GetProductByID(3).Return(&domain.Product{ID: 3}, nil)
	mockRepo.EXPECT().DeleteProduct(3).Return(nil)

	assert.NoError(t, service.Delete(3))
}
