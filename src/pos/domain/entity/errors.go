package entity

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrorKind clasifica los errores de negocio del motor de ventas
type ErrorKind string

const (
	KindValidation ErrorKind = "VALIDATION"
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindConflict   ErrorKind = "CONFLICT"
)

// ErrorCode código estable, legible por máquina
type ErrorCode string

const (
	CodeInvalidRequest         ErrorCode = "INVALID_REQUEST"
	CodeBranchRequired         ErrorCode = "BRANCH_REQUIRED"
	CodeBranchForbidden        ErrorCode = "BRANCH_FORBIDDEN"
	CodeMarginProductInvalid   ErrorCode = "MARGIN_PRODUCT_INVALID"
	CodeMarginOutOfRange       ErrorCode = "MARGIN_OUT_OF_RANGE"
	CodeCurrencyInvalid        ErrorCode = "CURRENCY_INVALID"
	CodeProductNotFound        ErrorCode = "PRODUCT_NOT_FOUND"
	CodeSaleNotFound           ErrorCode = "SALE_NOT_FOUND"
	CodeExchangeRateNotFound   ErrorCode = "EXCHANGE_RATE_NOT_FOUND"
	CodeInsufficientStock      ErrorCode = "INSUFFICIENT_STOCK"
	CodeMarginOverrideNotAllow ErrorCode = "MARGIN_PRICE_OVERRIDE_NOT_ALLOWED"
)

// SaleError error de negocio tipado. Requested/Available solo aplican a INSUFFICIENT_STOCK.
type SaleError struct {
	Code      ErrorCode
	Kind      ErrorKind
	Message   string
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *SaleError) Error() string {
	if e.ProductID != uuid.Nil {
		return fmt.Sprintf("%s: %s (product %s)", e.Code, e.Message, e.ProductID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is compara por código, así los sentinels matchean instancias con datos
func (e *SaleError) Is(target error) bool {
	t, ok := target.(*SaleError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// AsSaleError extrae el error de negocio de una cadena de errores
func AsSaleError(err error) (*SaleError, bool) {
	var saleErr *SaleError
	if errors.As(err, &saleErr) {
		return saleErr, true
	}
	return nil, false
}

var (
	ErrBranchRequired       = &SaleError{Code: CodeBranchRequired, Kind: KindValidation, Message: "branch is required when stock is tracked per branch"}
	ErrBranchForbidden      = &SaleError{Code: CodeBranchForbidden, Kind: KindValidation, Message: "branch does not belong to tenant"}
	ErrMarginProductInvalid = &SaleError{Code: CodeMarginProductInvalid, Kind: KindValidation, Message: "margin product requires a positive cost and a non-negative margin"}
	ErrMarginOutOfRange     = &SaleError{Code: CodeMarginOutOfRange, Kind: KindValidation, Message: "margin must be between 0 and 1000"}
	ErrCurrencyInvalid      = &SaleError{Code: CodeCurrencyInvalid, Kind: KindValidation, Message: "unknown currency"}
	ErrInvalidRequest       = &SaleError{Code: CodeInvalidRequest, Kind: KindValidation, Message: "invalid sale request"}
	ErrProductNotFound      = &SaleError{Code: CodeProductNotFound, Kind: KindNotFound, Message: "product not found"}
	ErrSaleNotFound         = &SaleError{Code: CodeSaleNotFound, Kind: KindNotFound, Message: "sale not found"}
	ErrExchangeRateNotFound = &SaleError{Code: CodeExchangeRateNotFound, Kind: KindNotFound, Message: "exchange rate not found"}
	ErrInsufficientStock    = &SaleError{Code: CodeInsufficientStock, Kind: KindConflict, Message: "insufficient stock"}
	ErrMarginPriceOverride  = &SaleError{Code: CodeMarginOverrideNotAllow, Kind: KindConflict, Message: "unit price cannot be set for margin priced products"}
)

// Errores de validación del request (todos INVALID_REQUEST)
var (
	ErrTenantIDRequired      = invalidRequest("tenant_id is required")
	ErrCashierIDRequired     = invalidRequest("cashier_id is required")
	ErrSaleMustHaveItems     = invalidRequest("sale must have at least one item")
	ErrProductIDRequired     = invalidRequest("product_id is required")
	ErrInvalidQuantity       = invalidRequest("quantity must be greater than 0")
	ErrInvalidPrice          = invalidRequest("price must be greater than or equal to 0")
	ErrInvalidPaymentMethod  = invalidRequest("payment_method must be one of EFECTIVO, TRANSFERENCIA, TARJETA, OTRO")
	ErrInvalidAdjustmentType = invalidRequest("adjustment type must be one of NONE, PERCENT, FIXED")
	ErrInvalidAdjustment     = invalidRequest("adjustment value must be greater than or equal to 0")
)

func invalidRequest(msg string) *SaleError {
	return &SaleError{Code: CodeInvalidRequest, Kind: KindValidation, Message: msg}
}

// NewInsufficientStockError error de conflicto con el detalle del faltante
func NewInsufficientStockError(productID uuid.UUID, requested, available int) *SaleError {
	return &SaleError{
		Code:      CodeInsufficientStock,
		Kind:      KindConflict,
		Message:   fmt.Sprintf("requested %d, available %d", requested, available),
		ProductID: productID,
		Requested: requested,
		Available: available,
	}
}

// NewProductNotFoundError producto inexistente para el tenant
func NewProductNotFoundError(productID uuid.UUID) *SaleError {
	return &SaleError{Code: CodeProductNotFound, Kind: KindNotFound, Message: ErrProductNotFound.Message, ProductID: productID}
}

// NewMarginPriceOverrideError precio explícito enviado para un producto por margen
func NewMarginPriceOverrideError(productID uuid.UUID) *SaleError {
	return &SaleError{Code: CodeMarginOverrideNotAllow, Kind: KindConflict, Message: ErrMarginPriceOverride.Message, ProductID: productID}
}

// NewMarginProductInvalidError costo o margen inválidos
func NewMarginProductInvalidError(productID uuid.UUID) *SaleError {
	return &SaleError{Code: CodeMarginProductInvalid, Kind: KindValidation, Message: ErrMarginProductInvalid.Message, ProductID: productID}
}

// NewMarginOutOfRangeError margen fuera de [0, 1000]
func NewMarginOutOfRangeError(productID uuid.UUID) *SaleError {
	return &SaleError{Code: CodeMarginOutOfRange, Kind: KindValidation, Message: ErrMarginOutOfRange.Message, ProductID: productID}
}

// NewExchangeRateNotFoundError no hay cotización tenant ni global para el par
func NewExchangeRateNotFoundError(from, to string) *SaleError {
	return &SaleError{Code: CodeExchangeRateNotFound, Kind: KindNotFound, Message: fmt.Sprintf("no exchange rate for %s->%s", from, to)}
}

// NewInvalidCurrencyError código de moneda desconocido
func NewInvalidCurrencyError(code string) *SaleError {
	return &SaleError{Code: CodeCurrencyInvalid, Kind: KindValidation, Message: fmt.Sprintf("unknown currency %q", code)}
}
