package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// PIX charge lifecycle as reported by the PSP bridge.
const (
	PixPendente  = "pendente"
	PixPago      = "pago"
	PixCancelado = "cancelado"
	PixExpirado  = "expirado"
)

// PixCobranca is a dynamic QR charge created at the PSP for one sale.
type PixCobranca struct {
	CobrancaID string `json:"charge_id"`
	QRCode     string `json:"qr_code"`
	CopiaECola string `json:"qr_code_text"`
}

// PixStatus is the polling answer for a charge.
type PixStatus struct {
	Status              string `json:"status"`
	ReferenciaTransacao string `json:"transaction_ref"`
}

type pixCriarPayload struct {
	Valor      decimal.Decimal `json:"amount"`
	Referencia string          `json:"order_reference"`
}

// PixClient talks to the PSP bridge that issues dynamic PIX QR codes and
// answers status polls. Confirmation of payment always comes from here, never
// from the operator.
type PixClient struct {
	pspURL     string
	httpClient *http.Client
}

func NewPixClient(pspURL string, timeout time.Duration) *PixClient {
	return &PixClient{
		pspURL:     pspURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CriarCobranca creates a dynamic QR charge for the sale total.
func (c *PixClient) CriarCobranca(ctx context.Context, valor decimal.Decimal, referencia string) (*PixCobranca, error) {
	body, err := json.Marshal(pixCriarPayload{Valor: valor, Referencia: referencia})
	if err != nil {
		return nil, fmt.Errorf("pix: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pspURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("pix: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pix: psp unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pix: psp returned %d", resp.StatusCode)
	}

	var cobranca PixCobranca
	if err := json.NewDecoder(resp.Body).Decode(&cobranca); err != nil {
		return nil, fmt.Errorf("pix: decode response: %w", err)
	}
	return &cobranca, nil
}

// ConsultarCobranca polls the charge status once.
func (c *PixClient) ConsultarCobranca(ctx context.Context, cobrancaID string) (*PixStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pspURL+"/charges/"+cobrancaID, nil)
	if err != nil {
		return nil, fmt.Errorf("pix: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pix: psp unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pix: psp returned %d", resp.StatusCode)
	}

	var status PixStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("pix: decode response: %w", err)
	}
	return &status, nil
}
