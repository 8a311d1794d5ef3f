package repository

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/checkout"
)

func TestMontarItensJSONContratoDoProcedimento(t *testing.T) {
	produtoID := uuid.New()
	itens := []checkout.ItemCarrinho{
		{
			LinhaID:       uuid.New(),
			ProdutoID:     produtoID,
			SKU:           "PEL-001",
			Nome:          "Película 3D",
			PrecoUnitario: decimal.RequireFromString("25.00"),
			Quantidade:    2,
			Desconto:      decimal.RequireFromString("1.50"),
		},
	}

	raw, err := MontarItensJSON(itens)
	require.NoError(t, err)

	var wire []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &wire))
	require.Len(t, wire, 1)

	// o procedimento conhece só estes campos — nome e SKU ficam de fora
	assert.Contains(t, wire[0], "product_id")
	assert.Contains(t, wire[0], "quantity")
	assert.Contains(t, wire[0], "unit_price")
	assert.Contains(t, wire[0], "discount")
	assert.NotContains(t, wire[0], "sku")
	assert.NotContains(t, wire[0], "nome")

	assert.JSONEq(t, `"`+produtoID.String()+`"`, string(wire[0]["product_id"]))
	assert.JSONEq(t, `2`, string(wire[0]["quantity"]))
	assert.JSONEq(t, `"25.00"`, string(wire[0]["unit_price"]))
}

func TestMontarPagamentosJSON(t *testing.T) {
	pagamentos := []checkout.Pagamento{
		{Metodo: checkout.MetodoCredito, Valor: decimal.RequireFromString("99.90"), Parcelas: 3, ReferenciaTransacao: "LOC-1"},
		{Metodo: checkout.MetodoPix, Valor: decimal.RequireFromString("10.00"), ReferenciaTransacao: "E2E-abc"},
	}

	raw, err := MontarPagamentosJSON(pagamentos)
	require.NoError(t, err)

	var wire []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &wire))
	require.Len(t, wire, 2)

	assert.JSONEq(t, `"credito"`, string(wire[0]["method"]))
	assert.JSONEq(t, `3`, string(wire[0]["installments"]))
	assert.JSONEq(t, `"LOC-1"`, string(wire[0]["transaction_ref"]))

	// parcelas só aparecem quando há parcelamento
	assert.NotContains(t, wire[1], "installments")
	assert.JSONEq(t, `"pix"`, string(wire[1]["method"]))
}

func TestMontarItensJSONVazio(t *testing.T) {
	raw, err := MontarItensJSON(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}
