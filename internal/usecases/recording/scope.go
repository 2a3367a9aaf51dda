package recording

import (
	"github.com/vfg2006/sales-manager-api/internal/domain"
)

// ScopeFor resolve o recorte de visibilidade de registros para uma
// identidade. A mesma regra vale para vendas e compras e é aplicada em
// toda listagem, em vez de cada endpoint repetir o switch de roles:
//
//   - admin vê e altera qualquer registro
//   - vendedor vê e altera apenas registros em que é o vendedor
//   - cliente vê apenas registros em que é o cliente, sem mutação
//
// Identidade ausente falha antes de qualquer lógica de role.
func ScopeFor(claims *domain.Claims) (domain.RecordScope, error) {
	if claims == nil {
		return domain.RecordScope{}, ErrUnauthenticated
	}

	switch claims.UserRoleID {
	case domain.RoleAdmin:
		return domain.RecordScope{All: true}, nil
	case domain.RoleSeller:
		sellerID := claims.UserID
		return domain.RecordScope{SellerID: &sellerID}, nil
	case domain.RoleClient:
		clientID := claims.UserID
		return domain.RecordScope{ClientID: &clientID, ReadOnly: true}, nil
	default:
		return domain.RecordScope{}, ErrForbidden
	}
}

// CanMutate decide se a identidade pode alterar ou remover um registro
// cujo vendedor é sellerID
func CanMutate(claims *domain.Claims, sellerID int) error {
	if claims == nil {
		return ErrUnauthenticated
	}

	switch claims.UserRoleID {
	case domain.RoleAdmin:
		return nil
	case domain.RoleSeller:
		if claims.UserID != sellerID {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}

// CanCreate decide se a identidade pode registrar novas vendas ou compras
func CanCreate(claims *domain.Claims) error {
	if claims == nil {
		return ErrUnauthenticated
	}

	switch claims.UserRoleID {
	case domain.RoleAdmin, domain.RoleSeller:
		return nil
	default:
		return ErrForbidden
	}
}

// Visible informa se um registro individual está dentro do recorte
func Visible(scope domain.RecordScope, record *domain.Record) bool {
	if scope.All {
		return true
	}

	if scope.SellerID != nil {
		return record.SellerID == *scope.SellerID
	}

	if scope.ClientID != nil {
		return record.ClientID != nil && *record.ClientID == *scope.ClientID
	}

	return false
}
