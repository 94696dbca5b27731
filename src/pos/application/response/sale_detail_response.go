package response

import "sales/src/pos/domain/entity"

// SaleDetailResponse venta con sus items y los movimientos de caja que generó
type SaleDetailResponse struct {
	SaleResponse
	CashEntries []CashEntryResponse `json:"cash_entries"`
}

// NewSaleDetailResponse arma el detalle
func NewSaleDetailResponse(sale *entity.Sale, entries []entity.CashLedgerEntry) *SaleDetailResponse {
	cash := make([]CashEntryResponse, 0, len(entries))
	for _, e := range entries {
		cash = append(cash, NewCashEntryResponse(e))
	}
	return &SaleDetailResponse{
		SaleResponse: *NewSaleResponse(sale),
		CashEntries:  cash,
	}
}
