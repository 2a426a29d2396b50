package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	registry := prometheus.NewRegistry()
	Register(registry)
	Register(registry)
	assert.Equal(t, prometheus.Registerer(registry), GetRegisterer())

	PackTotal.WithLabelValues("orders", SuccessLabel).Inc()
	UnpackTotal.WithLabelValues("orders", CompactFormatLabel, SuccessLabel).Inc()
	PayloadBytes.WithLabelValues("orders").Observe(14)
	DispatchTotal.WithLabelValues(NotFoundLabel).Inc()

	n, err := testutil.GatherAndCount(registry,
		"callbackdata_pack_total",
		"callbackdata_unpack_total",
		"callbackdata_payload_bytes",
		"callbackdata_dispatch_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
