package repository

import "fmt"

// VendaRecusadaError is a business rejection reported by process_sale itself
// (stock changed under us, validation failure in the procedure). The message
// is surfaced verbatim to the operator; the checkout session must be kept so
// the sale can be corrected and retried.
type VendaRecusadaError struct {
	Motivo string
}

func (e *VendaRecusadaError) Error() string {
	if e.Motivo == "" {
		return "venda recusada pelo servidor"
	}
	return e.Motivo
}

// FalhaTransporteError is a network/timeout failure while talking to the
// remote procedure. The outcome is ambiguous — the sale may or may not have
// been persisted — which is exactly why the commit carries an idempotency key.
type FalhaTransporteError struct {
	Causa error
}

func (e *FalhaTransporteError) Error() string {
	return fmt.Sprintf("falha de comunicação com o servidor: %v", e.Causa)
}

func (e *FalhaTransporteError) Unwrap() error { return e.Causa }
