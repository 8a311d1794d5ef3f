package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/checkout"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/model"
)

// VendaRepository is the sole write path for a sale. ProcessarVenda invokes
// the remote process_sale function, which atomically persists the sale and
// decrements stock — or rejects the whole thing. The client trusts the
// returned row verbatim and never recomputes totals.
type VendaRepository interface {
	ProcessarVenda(ctx context.Context, params ProcessarVendaParams) (*model.Venda, error)
}

// ProcessarVendaParams packages everything the remote procedure receives.
// ChaveIdempotencia lets the server deduplicate a retry sent after an
// ambiguous transport failure.
type ProcessarVendaParams struct {
	Cliente           model.Cliente
	Itens             []checkout.ItemCarrinho
	Pagamentos        []checkout.Pagamento
	Desconto          decimal.Decimal
	Observacoes       string
	OrganizacaoID     uuid.UUID
	ChaveIdempotencia uuid.UUID
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

// Wire shapes of the jsonb arguments — field names follow the procedure's
// contract, not the local domain naming.
type itemVendaJSON struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

type pagamentoJSON struct {
	Method         string          `json:"method"`
	Amount         decimal.Decimal `json:"amount"`
	Installments   int             `json:"installments,omitempty"`
	TransactionRef string          `json:"transaction_ref"`
}

type processSaleRow struct {
	Success     bool            `gorm:"column:success"`
	SaleID      uuid.UUID       `gorm:"column:sale_id"`
	SaleNumber  string          `gorm:"column:sale_number"`
	FinalAmount decimal.Decimal `gorm:"column:final_amount"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	Error       *string         `gorm:"column:error"`
}

func (r *vendaRepo) ProcessarVenda(ctx context.Context, params ProcessarVendaParams) (*model.Venda, error) {
	itens, err := MontarItensJSON(params.Itens)
	if err != nil {
		return nil, fmt.Errorf("process_sale: itens: %w", err)
	}
	pagamentos, err := MontarPagamentosJSON(params.Pagamentos)
	if err != nil {
		return nil, fmt.Errorf("process_sale: pagamentos: %w", err)
	}

	var clienteID interface{}
	if params.Cliente.ID != nil {
		clienteID = *params.Cliente.ID
	}

	var row processSaleRow
	err = r.db.WithContext(ctx).Raw(
		`SELECT * FROM process_sale(?::uuid, ?, ?, ?::jsonb, ?::jsonb, ?::numeric, ?, ?::uuid, ?::uuid)`,
		clienteID,
		params.Cliente.Nome,
		params.Cliente.Documento,
		string(itens),
		string(pagamentos),
		params.Desconto,
		params.Observacoes,
		params.OrganizacaoID,
		params.ChaveIdempotencia,
	).Scan(&row).Error
	if err != nil {
		// Ambiguous outcome: the call may have landed. The session keeps its
		// idempotency key so a retry cannot double-sell.
		return nil, &FalhaTransporteError{Causa: fmt.Errorf("process_sale: %w", err)}
	}

	if !row.Success {
		motivo := ""
		if row.Error != nil {
			motivo = *row.Error
		}
		return nil, &VendaRecusadaError{Motivo: motivo}
	}

	return &model.Venda{
		ID:           row.SaleID,
		Numero:       row.SaleNumber,
		ValorFinal:   row.FinalAmount,
		ConfirmadaEm: row.CreatedAt,
	}, nil
}

// MontarItensJSON serializes cart lines into the items jsonb argument.
func MontarItensJSON(itens []checkout.ItemCarrinho) ([]byte, error) {
	wire := make([]itemVendaJSON, 0, len(itens))
	for _, item := range itens {
		wire = append(wire, itemVendaJSON{
			ProductID: item.ProdutoID.String(),
			Quantity:  item.Quantidade,
			UnitPrice: item.PrecoUnitario,
			Discount:  item.Desconto,
		})
	}
	return json.Marshal(wire)
}

// MontarPagamentosJSON serializes payment records into the payments jsonb
// argument.
func MontarPagamentosJSON(pagamentos []checkout.Pagamento) ([]byte, error) {
	wire := make([]pagamentoJSON, 0, len(pagamentos))
	for _, pagamento := range pagamentos {
		wire = append(wire, pagamentoJSON{
			Method:         string(pagamento.Metodo),
			Amount:         pagamento.Valor,
			Installments:   pagamento.Parcelas,
			TransactionRef: pagamento.ReferenciaTransacao,
		})
	}
	return json.Marshal(wire)
}
