package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto is a read-only snapshot of a sellable product as returned by the
// remote get_products_for_sale function. The authoritative quantity lives
// server-side; QuantidadeDisponivel reflects the last fetch only and is never
// decremented locally.
type Produto struct {
	ID                   uuid.UUID       `gorm:"column:id"            json:"id"`
	SKU                  string          `gorm:"column:sku"           json:"sku"`
	Nome                 string          `gorm:"column:name"          json:"nome"`
	Categoria            string          `gorm:"column:category"      json:"categoria"`
	PrecoVenda           decimal.Decimal `gorm:"column:selling_price" json:"preco_venda"`
	QuantidadeDisponivel int             `gorm:"column:quantity"      json:"quantidade_disponivel"`
	EstoqueBaixo         bool            `gorm:"column:low_stock"     json:"estoque_baixo"`
}

// Disponivel reports whether qtd units can still be sold per the snapshot.
func (p *Produto) Disponivel(qtd int) bool {
	return qtd <= p.QuantidadeDisponivel
}
