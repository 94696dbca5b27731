package metrics

import (
	"sales/src/pos/domain/entity"

	"github.com/prometheus/client_golang/prometheus"
)

// SaleCollector contadores de proceso para las ventas del POS
type SaleCollector struct {
	committed *prometheus.CounterVec
	aborted   *prometheus.CounterVec
	revenue   *prometheus.CounterVec
	items     prometheus.Histogram
}

// NewSaleCollector registra los contadores en reg. Con reg nil usa el registry por defecto.
func NewSaleCollector(reg prometheus.Registerer) (*SaleCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &SaleCollector{
		committed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "sales_committed_total",
			Help:      "Ventas confirmadas por medio de pago.",
		}, []string{"payment_method"}),
		aborted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "sales_aborted_total",
			Help:      "Ventas rechazadas o abortadas por código de error.",
		}, []string{"code"}),
		revenue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "sales_revenue_total",
			Help:      "Total facturado por moneda.",
		}, []string{"currency"}),
		items: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pos",
			Name:      "sale_lines",
			Help:      "Cantidad de líneas por venta.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50},
		}),
	}

	for _, col := range []prometheus.Collector{c.committed, c.aborted, c.revenue, c.items} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SaleCommitted se llama después del commit
func (c *SaleCollector) SaleCommitted(sale *entity.Sale) {
	c.committed.WithLabelValues(string(sale.PaymentMethod)).Inc()
	total, _ := sale.Total.Float64()
	c.revenue.WithLabelValues(sale.Currency).Add(total)
	c.items.Observe(float64(sale.TotalItems()))
}

// SaleAborted se llama cuando la transacción no se confirmó
func (c *SaleCollector) SaleAborted(code string) {
	c.aborted.WithLabelValues(code).Inc()
}
