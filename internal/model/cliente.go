package model

import "github.com/google/uuid"

// Cliente identifies the customer attached to a pending sale.
// It never mutates after selection.
type Cliente struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	Nome      string     `json:"nome"`
	Documento string     `json:"documento"`
	Telefone  string     `json:"telefone,omitempty"`
	Email     string     `json:"email,omitempty"`
}

// ClienteNaoIdentificado is the sentinel substituted when the operator does
// not associate a known customer to the sale.
func ClienteNaoIdentificado() Cliente {
	return Cliente{
		Nome:      "Consumidor não identificado",
		Documento: "000.000.000-00",
	}
}

// Identificado reports whether a real customer (not the sentinel) is attached.
func (c Cliente) Identificado() bool { return c.ID != nil }
