package mongofake

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics counts collection operations. A nil *metrics counts nothing.
type metrics struct {
	operations *prometheus.CounterVec
	documents  *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}
	m := &metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mongofake_operations_total",
			Help: "Total number of collection operations handled by the fake.",
		}, []string{"operation"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mongofake_documents_affected_total",
			Help: "Total number of documents returned, inserted, updated or deleted.",
		}, []string{"operation"}),
	}
	var err error
	if m.operations, err = register(reg, m.operations); err != nil {
		return nil, err
	}
	if m.documents, err = register(reg, m.documents); err != nil {
		return nil, err
	}
	return m, nil
}

// register reuses the collector already registered under the same name, so that clients made
// again after Reset keep counting on one registry.
func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing, nil
		}
	}
	return nil, err
}

func (m *metrics) observe(operation string, documents int) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation).Inc()
	m.documents.WithLabelValues(operation).Add(float64(documents))
}
