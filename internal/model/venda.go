package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venda is the committed-sale result produced by the remote process_sale
// function. It is opaque and authoritative: the client never recomputes its
// totals, and a Venda exists only after a successful commit.
type Venda struct {
	ID           uuid.UUID       `gorm:"column:sale_id"      json:"id"`
	Numero       string          `gorm:"column:sale_number"  json:"numero"`
	ValorFinal   decimal.Decimal `gorm:"column:final_amount" json:"valor_final"`
	ConfirmadaEm time.Time       `gorm:"column:created_at"   json:"confirmada_em"`
}
