package vendorscope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocksync-api/internal/domain"
	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/vendorscope"
)

func conexion(mode string, vendors ...string) *entity.Connection {
	return &entity.Connection{
		ID:              "conn-1",
		Platform:        entity.PlatformShopify,
		SetupComplete:   true,
		VendorMode:      mode,
		ApprovedVendors: vendors,
	}
}

func TestFromConnection_SetupIncompletoRechaza(t *testing.T) {
	c := conexion(entity.VendorModeAll)
	c.SetupComplete = false
	_, err := vendorscope.FromConnection(c)
	assert.ErrorIs(t, err, domain.ErrSetupIncomplete,
		"sin decisión registrada el sync debe negarse, no asumir acceso total")
}

func TestFromConnection_ModoDesconocido(t *testing.T) {
	_, err := vendorscope.FromConnection(conexion("whatever"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQueryFilter_DosProveedores(t *testing.T) {
	s, err := vendorscope.FromConnection(conexion(entity.VendorModeSelected, "Acme", "Zeta"))
	require.NoError(t, err)
	assert.Equal(t, `vendor:"Acme" OR vendor:"Zeta"`, s.QueryFilter())
}

func TestQueryFilter_AccesoTotalSinFiltro(t *testing.T) {
	s, err := vendorscope.FromConnection(conexion(entity.VendorModeAll))
	require.NoError(t, err)
	assert.Equal(t, "", s.QueryFilter())
	assert.False(t, s.IsEmpty())
}

func TestIsEmpty_ListadoVacioCortocircuita(t *testing.T) {
	s, err := vendorscope.FromConnection(conexion(entity.VendorModeSelected))
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())

	s, err = vendorscope.FromConnection(conexion(entity.VendorModeNone))
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())
}

func TestFromConnection_DescartaNombresVacios(t *testing.T) {
	s, err := vendorscope.FromConnection(conexion(entity.VendorModeSelected, "  ", "Acme", ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme"}, s.Vendors)
}

func TestAllows_ComparacionNormalizada(t *testing.T) {
	s, err := vendorscope.FromConnection(conexion(entity.VendorModeSelected, "Café Ltda"))
	require.NoError(t, err)
	assert.True(t, s.Allows("Café Ltda "))
	assert.False(t, s.Allows("Otra Marca"))

	total, err := vendorscope.FromConnection(conexion(entity.VendorModeAll))
	require.NoError(t, err)
	assert.True(t, total.Allows("cualquiera"))
}
