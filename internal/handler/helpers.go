package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/apierror"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/checkout"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/infra"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/repository"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/service"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps domain errors to HTTP statuses. The mapping is the whole
// contract between the checkout core and the POS screen, so it lives in one
// place:
//
//	not found            → 404
//	stock ceiling        → 409 (the cart refused the mutation)
//	commit guards        → 422 (confirm called while disabled)
//	process_sale refusal → 409, server reason verbatim
//	transport failure    → 502 (outcome ambiguous — retry with same key)
//	circuit open         → 503
func respondError(c *gin.Context, err error) {
	var estoque *checkout.EstoqueInsuficienteError
	var recusada *repository.VendaRecusadaError
	var transporte *repository.FalhaTransporteError

	switch {
	case errors.Is(err, service.ErrSessaoNaoEncontrada),
		errors.Is(err, service.ErrProdutoNaoEncontrado),
		errors.Is(err, checkout.ErrLinhaNaoEncontrada):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))

	case errors.As(err, &estoque):
		c.JSON(http.StatusConflict, apierror.New(estoque.Error()))

	case errors.Is(err, service.ErrConfirmacaoEmCurso):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))

	case errors.Is(err, checkout.ErrCarrinhoVazio),
		errors.Is(err, checkout.ErrFluxoNaoSelecionado),
		errors.Is(err, checkout.ErrPagamentoIncompleto),
		errors.Is(err, checkout.ErrParcelasInvalidas),
		errors.Is(err, service.ErrMetodoNaoCorresponde):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))

	case errors.Is(err, checkout.ErrPagamentoCancelado):
		// sub-flow aborted: the session is back at method selection
		c.JSON(http.StatusConflict, apierror.New(err.Error()))

	case errors.As(err, &recusada):
		c.JSON(http.StatusConflict, apierror.New(recusada.Error()))

	case errors.As(err, &transporte):
		c.JSON(http.StatusBadGateway, apierror.New("falha de comunicação com o servidor de vendas — tente novamente"))

	case errors.Is(err, infra.ErrCircuitOpen):
		c.JSON(http.StatusServiceUnavailable, apierror.New("canal de pagamento temporariamente indisponível"))

	default:
		_ = c.Error(err) // logged by the ErrorHandler middleware
	}
}
