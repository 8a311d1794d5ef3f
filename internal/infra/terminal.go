package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// ErrPagamentoTerminalCancelado is reported when the operator or the device
// aborted the card transaction before approval.
var ErrPagamentoTerminalCancelado = errors.New("transação cancelada na maquininha")

// TerminalPayload is sent to the card terminal bridge to start a debit
// transaction for the full sale total.
type TerminalPayload struct {
	Valor      decimal.Decimal `json:"amount"`
	Referencia string          `json:"order_reference"`
}

// TerminalResponse is the bridge's answer after the cardholder interaction.
// Status: "approved" | "cancelled" | "failed".
type TerminalResponse struct {
	Status              string `json:"status"`
	ReferenciaTransacao string `json:"transaction_ref"`
	Mensagem            string `json:"message"`
}

// TerminalClient talks to the card machine bridge on the shop's LAN. The
// bridge owns the cardholder interaction; this client only hands off the
// amount and waits for the transaction reference. The HTTP timeout is the
// ceiling for how long a checkout can be stuck waiting on the device.
type TerminalClient struct {
	bridgeURL  string
	httpClient *http.Client
}

func NewTerminalClient(bridgeURL string, timeout time.Duration) *TerminalClient {
	return &TerminalClient{
		bridgeURL:  bridgeURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// IniciarPagamento starts a debit transaction and blocks until the device
// reports an outcome, the context expires, or the client times out.
// A cancellation is returned as ErrPagamentoTerminalCancelado.
func (c *TerminalClient) IniciarPagamento(ctx context.Context, valor decimal.Decimal, referencia string) (string, error) {
	body, err := json.Marshal(TerminalPayload{Valor: valor, Referencia: referencia})
	if err != nil {
		return "", fmt.Errorf("terminal: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.bridgeURL+"/transactions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("terminal: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("terminal: bridge unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("terminal: bridge returned %d", resp.StatusCode)
	}

	var result TerminalResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("terminal: decode response: %w", err)
	}

	switch result.Status {
	case "approved":
		if result.ReferenciaTransacao == "" {
			return "", fmt.Errorf("terminal: approved without transaction_ref")
		}
		return result.ReferenciaTransacao, nil
	case "cancelled":
		return "", ErrPagamentoTerminalCancelado
	default:
		return "", fmt.Errorf("terminal: transação falhou: %s", result.Mensagem)
	}
}
