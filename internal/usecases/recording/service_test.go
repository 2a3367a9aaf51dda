package recording

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
	t.Run("Vendedor sempre registra em nome próprio", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockRecordRepository(ctrl)
		service := NewSaleService(mockRepo)

		var saved *domain.Record
		mockRepo.EXPECT().
			Create(gomock.Any()).
			DoAndReturn(func(record *domain.Record) (*domain.Record, error) {
				saved = record
				record.ID = 10
				return record, nil
			})
		mockRepo.EXPECT().
			GetByID(10).
			Return(&domain.Record{ID: 10, SellerID: 42}, nil)

		req := &domain.CreateRecordRequest{
			Date:        "2024-01-15",
			SellerID:    99, // ignorado para vendedores
			ProductName: "Banner",
			Quantity:    1,
			UnitPrice:   decimal.RequireFromString("80.00"),
		}

		created, err := service.Create(claimsFor(42, domain.RoleSeller), req)
		require.NoError(t, err)
		assert.Equal(t, 42, saved.SellerID)
		assert.Equal(t, 10, created.ID)
	})

	t.Run("Admin pode registrar para outro vendedor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockRecordRepository(ctrl)
		service := NewSaleService(mockRepo)

		var saved *domain.Record
		mockRepo.EXPECT().
			Create(gomock.Any()).
			DoAndReturn(func(record *domain.Record) (*domain.Record, error) {
				saved = record
				record.ID = 11
				return record, nil
			})
		mockRepo.EXPECT().GetByID(11).Return(&domain.Record{ID: 11, SellerID: 5}, nil)

		req := &domain.CreateRecordRequest{
			Date:        "2024-01-15",
			SellerID:    5,
			ProductName: "Flyer",
			Quantity:    100,
			UnitPrice:   decimal.RequireFromString("0.35"),
		}

		_, err := service.Create(claimsFor(1, domain.RoleAdmin), req)
		require.NoError(t, err)
		assert.Equal(t, 5, saved.SellerID)
	})

	t.Run("Cliente não cria registros", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockRecordRepository(ctrl)
		service := NewSaleService(mockRepo)

		_, err := service.Create(claimsFor(7, domain.RoleClient), &domain.CreateRecordRequest{Date: "2024-01-15"})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Itens estruturados são validados e serializados", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockRecordRepository(ctrl)
		service := NewSaleService(mockRepo)

		var saved *domain.Record
		mockRepo.EXPECT().
			Create(gomock.Any()).
			DoAndReturn(func(record *domain.Record) (*domain.Record, error) {
				saved = record
				record.ID = 12
				return record, nil
			})
		mockRepo.EXPECT().GetByID(12).Return(&domain.Record{ID: 12}, nil)

		req := &domain.CreateRecordRequest{
			Date: "2024-01-15",
			LineItems: []domain.LineItem{
				{ProductName: "Cartão", Quantity: 2, UnitPrice: decimal.RequireFromString("10.50")},
			},
		}

		_, err := service.Create(claimsFor(42, domain.RoleSeller), req)
		require.NoError(t, err)
		assert.NotEmpty(t, saved.LineItemsRaw)
	})

	t.Run("Item inválido é rejeitado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockRecordRepository(ctrl)
		service := NewSaleService(mockRepo)

		req := &domain.CreateRecordRequest{
			Date: "2024-01-15",
			LineItems: []domain.LineItem{
				{ProductName: "", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
			},
		}

		_, err := service.Create(claimsFor(42, domain.RoleSeller), req)
		assert.ErrorIs(t, err, ErrInvalidLineItems)
	})

	t.Run("Sem itens e sem produto legado falha", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockRecordRepository(ctrl)
		service := NewSaleService(mockRepo)

		_, err := service.Create(claimsFor(42, domain.RoleSeller), &domain.CreateRecordRequest{Date: "2024-01-15"})
		assert.ErrorIs(t, err, ErrMissingRequiredData)
	})

	t.Run("Data em formato inválido falha", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockRecordRepository(ctrl)
		service := NewSaleService(mockRepo)

		req := &domain.CreateRecordRequest{
			Date:        "15/01/2024",
			ProductName: "Banner",
			Quantity:    1,
			UnitPrice:   decimal.RequireFromString("80.00"),
		}

		_, err := service.Create(claimsFor(42, domain.RoleSeller), req)
		assert.ErrorIs(t, err, ErrMissingRequiredData)
	})
}

func TestService_Get(t *testing.T) {
	t.Run("Registro fora do recorte se comporta como inexistente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockRecordRepository(ctrl)
		service := NewSaleService(mockRepo)

		mockRepo.EXPECT().GetByID(5).Return(&domain.Record{ID: 5, SellerID: 99}, nil)

		_, err := service.Get(claimsFor(42, domain.RoleSeller), 5)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("Cliente acessa registro em que é o cliente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockRecordRepository(ctrl)
		service := NewPurchaseService(mockRepo)

		clientID := 7
		mockRepo.EXPECT().GetByID(5).Return(&domain.Record{ID: 5, SellerID: 1, ClientID: &clientID}, nil)

		record, err := service.Get(claimsFor(7, domain.RoleClient), 5)
		require.NoError(t, err)
		assert.Equal(t, 5, record.ID)
	})

	t.Run("Registro inexistente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockRecordRepository(ctrl)
		service := NewSaleService(mockRepo)

		mockRepo.EXPECT().GetByID(404).Return(nil, nil)

		_, err := service.Get(claimsFor(1, domain.RoleAdmin), 404)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}

func TestService_Update(t *testing.T) {
	t.Run("Vendedor não altera registro de outro vendedor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockRecordRepository(ctrl)
		service := NewSaleService(mockRepo)

		mockRepo.EXPECT().GetByID(5).Return(&domain.Record{ID: 5, SellerID: 99}, nil)

		_, err := service.Update(claimsFor(42, domain.RoleSeller), 5, &domain.UpdateRecordRequest{})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Apenas admin reatribui o vendedor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockRecordRepository(ctrl)
		service := NewSaleService(mockRepo)

		mockRepo.EXPECT().GetByID(5).Return(&domain.Record{ID: 5, SellerID: 42}, nil).Times(2)

		var updated *domain.Record
		mockRepo.EXPECT().
			Update(gomock.Any()).
			DoAndReturn(func(record *domain.Record) error {
				updated = record
				return nil
			})

		newSeller := 8
		_, err := service.Update(claimsFor(42, domain.RoleSeller), 5, &domain.UpdateRecordRequest{SellerID: &newSeller})
		require.NoError(t, err)

		// Vendedor tentou reatribuir: o registro permanece dele
		assert.Equal(t, 42, updated.SellerID)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("Admin remove registro de qualquer vendedor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockRecordRepository(ctrl)
		service := NewSaleService(mockRepo)

		mockRepo.EXPECT().GetByID(5).Return(&domain.Record{ID: 5, SellerID: 42}, nil)
		mockRepo.EXPECT().Delete(5).Return(nil)

		assert.NoError(t, service.Delete(claimsFor(1, domain.RoleAdmin), 5))
	})

	t.Run("Cliente não remove registros", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockRecordRepository(ctrl)
		service := NewSaleService(mockRepo)

		clientID := 7
		mockRepo.EXPECT().GetByID(5).Return(&domain.Record{ID: 5, SellerID: 1, ClientID: &clientID}, nil)

		assert.ErrorIs(t, service.Delete(claimsFor(7, domain.RoleClient), 5), ErrForbidden)
	})
}
