package recording

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-manager-api/internal/domain"
)

func claimsFor(userID, roleID int) *domain.Claims {
	return &domain.Claims{UserID: userID, UserRoleID: roleID}
}

func TestScopeFor(t *testing.T) {
	t.Run("Admin enxerga tudo", func(t *testing.T) {
		scope, err := ScopeFor(claimsFor(1, domain.RoleAdmin))
		require.NoError(t, err)
		assert.True(t, scope.All)
		assert.Nil(t, scope.SellerID)
		assert.Nil(t, scope.ClientID)
		assert.False(t, scope.ReadOnly)
	})

	t.Run("Vendedor enxerga apenas os próprios registros", func(t *testing.T) {
		scope, err := ScopeFor(claimsFor(42, domain.RoleSeller))
		require.NoError(t, err)
		assert.False(t, scope.All)
		require.NotNil(t, scope.SellerID)
		assert.Equal(t, 42, *scope.SellerID)
		assert.False(t, scope.ReadOnly)
	})

	t.Run("Cliente enxerga os registros onde é cliente, somente leitura", func(t *testing.T) {
		scope, err := ScopeFor(claimsFor(7, domain.RoleClient))
		require.NoError(t, err)
		assert.False(t, scope.All)
		require.NotNil(t, scope.ClientID)
		assert.Equal(t, 7, *scope.ClientID)
		assert.True(t, scope.ReadOnly)
	})

	t.Run("Role desconhecido é proibido", func(t *testing.T) {
		_, err := ScopeFor(claimsFor(1, 99))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Sem identidade falha antes de qualquer regra de role", func(t *testing.T) {
		_, err := ScopeFor(nil)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestCanMutate(t *testing.T) {
	t.Run("Admin altera registro de qualquer vendedor", func(t *testing.T) {
		assert.NoError(t, CanMutate(claimsFor(1, domain.RoleAdmin), 42))
	})

	t.Run("Vendedor altera apenas registro próprio", func(t *testing.T) {
		assert.NoError(t, CanMutate(claimsFor(42, domain.RoleSeller), 42))
		assert.ErrorIs(t, CanMutate(claimsFor(42, domain.RoleSeller), 43), ErrForbidden)
	})

	t.Run("Cliente nunca altera", func(t *testing.T) {
		assert.ErrorIs(t, CanMutate(claimsFor(7, domain.RoleClient), 7), ErrForbidden)
	})

	t.Run("Sem identidade", func(t *testing.T) {
		assert.ErrorIs(t, CanMutate(nil, 1), ErrUnauthenticated)
	})
}

func TestCanCreate(t *testing.T) {
	assert.NoError(t, CanCreate(claimsFor(1, domain.RoleAdmin)))
	assert.NoError(t, CanCreate(claimsFor(2, domain.RoleSeller)))
	assert.ErrorIs(t, CanCreate(claimsFor(3, domain.RoleClient)), ErrForbidden)
	assert.ErrorIs(t, CanCreate(nil), ErrUnauthenticated)
}

func TestVisible(t *testing.T) {
	clientID := 7
	record := &domain.Record{ID: 1, SellerID: 42, ClientID: &clientID}

	sellerID := 42
	otherSellerID := 43

	assert.True(t, Visible(domain.RecordScope{All: true}, record))
	assert.True(t, Visible(domain.RecordScope{SellerID: &sellerID}, record))
	assert.False(t, Visible(domain.RecordScope{SellerID: &otherSellerID}, record))
	assert.True(t, Visible(domain.RecordScope{ClientID: &clientID}, record))

	otherClientID := 8
	assert.False(t, Visible(domain.RecordScope{ClientID: &otherClientID}, record))

	// Registro sem cliente nunca é visível para recorte de cliente
	noClient := &domain.Record{ID: 2, SellerID: 42}
	assert.False(t, Visible(domain.RecordScope{ClientID: &clientID}, noClient))
}
