package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/checkout"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/model"
)

var lojaTeste = Loja{
	Nome:     "Paulo Cell",
	CNPJ:     "12.345.678/0001-90",
	Endereco: "Av. Central, 100 - Centro",
	Telefone: "(98) 99999-0000",
}

func dadosTeste() Dados {
	confirmada, _ := time.Parse(time.RFC3339, "2026-03-10T14:32:00-03:00")
	return Dados{
		Venda: model.Venda{
			ID:           uuid.New(),
			Numero:       "V-000123",
			ValorFinal:   decimal.RequireFromString("70.00"),
			ConfirmadaEm: confirmada,
		},
		Cliente: model.ClienteNaoIdentificado(),
		Itens: []checkout.ItemCarrinho{
			{
				Nome:          "Película 3D iPhone 13",
				PrecoUnitario: decimal.RequireFromString("25.00"),
				Quantidade:    2,
				Desconto:      decimal.Zero,
			},
			{
				Nome:          "Cabo USB-C 2m",
				PrecoUnitario: decimal.RequireFromString("35.00"),
				Quantidade:    1,
				Desconto:      decimal.RequireFromString("5.00"),
			},
		},
		Pagamentos: []checkout.Pagamento{
			{Metodo: checkout.MetodoDinheiro, Valor: decimal.RequireFromString("70.00"), ReferenciaTransacao: "LOC-1"},
		},
		Desconto: decimal.RequireFromString("10.00"),
		Troco:    decimal.RequireFromString("30.00"),
	}
}

func TestRenderDeterministico(t *testing.T) {
	r := NovoRenderer(lojaTeste, "pt-BR")
	d := dadosTeste()

	assert.Equal(t, r.Render(d), r.Render(d))
}

func TestRenderSecoesEOrdem(t *testing.T) {
	r := NovoRenderer(lojaTeste, "pt-BR")
	texto := r.Render(dadosTeste())

	secoes := []string{
		"PAULO CELL",
		"CNPJ: 12.345.678/0001-90",
		"CUPOM NÃO FISCAL",
		"Venda: V-000123",
		"Cliente: Consumidor não identificado",
		"Película 3D iPhone 13",
		"Cabo USB-C 2m",
		"Subtotal",
		"Desconto",
		"TOTAL",
		"Dinheiro",
		"Troco",
		"Obrigado pela preferência!",
	}
	pos := -1
	for _, secao := range secoes {
		idx := strings.Index(texto, secao)
		require.GreaterOrEqual(t, idx, 0, "seção ausente: %q", secao)
		assert.Greater(t, idx, pos, "seção fora de ordem: %q", secao)
		pos = idx
	}
}

func TestRenderLarguraMaxima(t *testing.T) {
	r := NovoRenderer(lojaTeste, "pt-BR")
	d := dadosTeste()
	d.Itens[0].Nome = "Pelicula de vidro temperado 3D borda curva iPhone 13 Pro Max"

	for _, linha := range strings.Split(r.Render(d), "\n") {
		assert.LessOrEqual(t, len([]rune(linha)), 41, "linha longa: %q", linha)
	}
}

func TestRenderTotalEcoaValorDoServidor(t *testing.T) {
	r := NovoRenderer(lojaTeste, "pt-BR")
	d := dadosTeste()
	// o servidor pode aplicar ajustes próprios; o cupom imprime o que veio
	d.Venda.ValorFinal = decimal.RequireFromString("68.50")

	texto := r.Render(d)
	linhaTotal := ""
	for _, linha := range strings.Split(texto, "\n") {
		if strings.HasPrefix(linha, "TOTAL") {
			linhaTotal = linha
		}
	}
	require.NotEmpty(t, linhaTotal)
	assert.Contains(t, linhaTotal, "68,50")
	assert.NotContains(t, linhaTotal, "70,00")
}

func TestRenderParcelasETroco(t *testing.T) {
	r := NovoRenderer(lojaTeste, "pt-BR")
	d := dadosTeste()
	d.Pagamentos = []checkout.Pagamento{
		{Metodo: checkout.MetodoCredito, Valor: decimal.RequireFromString("70.00"), Parcelas: 3},
	}
	d.Troco = decimal.Zero

	texto := r.Render(d)
	assert.Contains(t, texto, "Cartão de Crédito em 3x")
	assert.NotContains(t, texto, "Troco")
}

func TestRenderClienteIdentificado(t *testing.T) {
	r := NovoRenderer(lojaTeste, "pt-BR")
	d := dadosTeste()
	id := uuid.New()
	d.Cliente = model.Cliente{ID: &id, Nome: "Maria Souza", Documento: "123.456.789-00"}

	texto := r.Render(d)
	assert.Contains(t, texto, "Cliente: Maria Souza")
	assert.Contains(t, texto, "Doc: 123.456.789-00")
}

func TestMoedaFormatoPtBR(t *testing.T) {
	r := NovoRenderer(lojaTeste, "pt-BR")

	assert.Equal(t, "R$ 1.234,56", r.Moeda(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "R$ 10,00", r.Moeda(decimal.RequireFromString("10")))
}

func TestLocaleInvalidoCaiParaPtBR(t *testing.T) {
	r := NovoRenderer(lojaTeste, "???")
	assert.Equal(t, "R$ 10,00", r.Moeda(decimal.RequireFromString("10")))
}
