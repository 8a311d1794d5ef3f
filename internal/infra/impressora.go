package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ImpressoraClient talks to the thermal printer bridge. The bridge exposes a
// single "print formatted text" capability; nothing about the print outcome
// flows back into the sale, which finished the moment process_sale returned.
type ImpressoraClient struct {
	bridgeURL  string
	httpClient *http.Client
}

func NewImpressoraClient(bridgeURL string) *ImpressoraClient {
	return &ImpressoraClient{
		bridgeURL:  bridgeURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type imprimirPayload struct {
	Texto string `json:"text"`
}

// Imprimir sends the cupom text to the bridge. Errors matter only to the
// print worker's retry loop.
func (c *ImpressoraClient) Imprimir(ctx context.Context, texto string) error {
	body, err := json.Marshal(imprimirPayload{Texto: texto})
	if err != nil {
		return fmt.Errorf("impressora: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.bridgeURL+"/print", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("impressora: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("impressora: bridge unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("impressora: bridge returned %d", resp.StatusCode)
	}
	return nil
}
