package recording

import (
	"encoding/json"

	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/pkg/log"
	"github.com/vfg2006/sales-manager-api/pkg/utils"
)

// RecordService concentra o CRUD de vendas ou compras, sempre passando
// pela regra de recorte de visibilidade por role
type RecordService interface {
	List(claims *domain.Claims) ([]*domain.Record, error)
	Get(claims *domain.Claims, recordID int) (*domain.Record, error)
	Create(claims *domain.Claims, req *domain.CreateRecordRequest) (*domain.Record, error)
	Update(claims *domain.Claims, recordID int, req *domain.UpdateRecordRequest) (*domain.Record, error)
	Delete(claims *domain.Claims, recordID int) error
}

type Service struct {
	repo repository.RecordRepository
	kind string
}

func NewSaleService(repo repository.RecordRepository) RecordService {
	return &Service{repo: repo, kind: domain.RecordKindSale}
}

func NewPurchaseService(repo repository.RecordRepository) RecordService {
	return &Service{repo: repo, kind: domain.RecordKindPurchase}
}

func (s *Service) List(claims *domain.Claims) ([]*domain.Record, error) {
	scope, err := ScopeFor(claims)
	if err != nil {
		return nil, err
	}

	return s.repo.List(scope)
}

func (s *Service) Get(claims *domain.Claims, recordID int) (*domain.Record, error) {
	scope, err := ScopeFor(claims)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	// Fora do recorte o registro se comporta como inexistente
	if !Visible(scope, record) {
		return nil, ErrRecordNotFound
	}

	return record, nil
}

func (s *Service) Create(claims *domain.Claims, req *domain.CreateRecordRequest) (*domain.Record, error) {
	if err := CanCreate(claims); err != nil {
		return nil, err
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, ErrMissingRequiredData
	}

	record := &domain.Record{
		Date:        *date,
		SellerID:    req.SellerID,
		ClientID:    req.ClientID,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	}

	// Vendedores sempre registram em nome próprio
	if claims.UserRoleID == domain.RoleSeller || record.SellerID == 0 {
		record.SellerID = claims.UserID
	}

	if len(req.LineItems) > 0 {
		if err := validateLineItems(req.LineItems); err != nil {
			return nil, err
		}

		raw, err := json.Marshal(req.LineItems)
		if err != nil {
			return nil, ErrInvalidLineItems
		}
		record.LineItemsRaw = raw
	} else if record.ProductName == "" || record.Quantity <= 0 {
		// Sem itens estruturados, o formato legado de produto único é obrigatório
		return nil, ErrMissingRequiredData
	}

	created, err := s.repo.Create(record)
	if err != nil {
		return nil, err
	}

	log.L.WithFields(log.Fields{
		"kind":      s.kind,
		"record_id": created.ID,
		"seller_id": created.SellerID,
	}).Info("Registro criado")

	return s.repo.GetByID(created.ID)
}

func (s *Service) Update(claims *domain.Claims, recordID int, req *domain.UpdateRecordRequest) (*domain.Record, error) {
	record, err := s.repo.GetByID(recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	if err := CanMutate(claims, record.SellerID); err != nil {
		return nil, err
	}

	if req.Date != nil {
		date, err := utils.ParseDate(*req.Date)
		if err != nil {
			return nil, ErrMissingRequiredData
		}
		record.Date = *date
	}

	// Apenas administradores reatribuem registros a outro vendedor
	if req.SellerID != nil && claims.UserRoleID == domain.RoleAdmin {
		record.SellerID = *req.SellerID
	}

	if req.ClientID != nil {
		record.ClientID = req.ClientID
	}

	if req.ProductName != nil {
		record.ProductName = *req.ProductName
	}

	if req.Quantity != nil {
		record.Quantity = *req.Quantity
	}

	if req.UnitPrice != nil {
		record.UnitPrice = *req.UnitPrice
	}

	if len(req.LineItems) > 0 {
		if err := validateLineItems(req.LineItems); err != nil {
			return nil, err
		}

		raw, err := json.Marshal(req.LineItems)
		if err != nil {
			return nil, ErrInvalidLineItems
		}
		record.LineItemsRaw = raw
	}

	if err := s.repo.Update(record); err != nil {
		return nil, err
	}

	return s.repo.GetByID(recordID)
}

func (s *Service) Delete(claims *domain.Claims, recordID int) error {
	record, err := s.repo.GetByID(recordID)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrRecordNotFound
	}

	if err := CanMutate(claims, record.SellerID); err != nil {
		return err
	}

	if err := s.repo.Delete(recordID); err != nil {
		return err
	}

	log.L.WithFields(log.Fields{
		"kind":      s.kind,
		"record_id": recordID,
		"user_id":   claims.UserID,
	}).Info("Registro removido")

	return nil
}

func validateLineItems(items []domain.LineItem) error {
	for _, item := range items {
		if item.ProductName == "" || item.Quantity <= 0 || item.UnitPrice.IsNegative() {
			return ErrInvalidLineItems
		}
	}
	return nil
}
