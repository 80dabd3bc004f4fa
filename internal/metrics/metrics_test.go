package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/storefront/pkg/apperrors"
)

func TestCartMetrics_Observe(t *testing.T) {
	t.Parallel()

	m := NewCartMetrics(prometheus.NewRegistry())

	m.Observe("add", nil)
	m.Observe("add", nil)
	m.Observe("add", fmt.Errorf("qty 9: %w", apperrors.ErrOutOfStock))
	m.Observe("remove", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Mutations.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues("add", "out_of_stock")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues("remove", "internal")))
}

func TestCartMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *CartMetrics
	assert.NotPanics(t, func() { m.Observe("add", nil) })
}
