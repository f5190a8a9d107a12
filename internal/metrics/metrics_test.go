package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	Register(reg)
	assert.NotPanics(t, func() { Register(reg) })

	InviteRedemptions.WithLabelValues("success").Inc()
	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "taskflow_invite_redemptions_total")
}

func TestCountersAreLabelled(t *testing.T) {
	before := testutil.ToFloat64(AuthorizationDenials.WithLabelValues("not_in_hierarchy"))
	AuthorizationDenials.WithLabelValues("not_in_hierarchy").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(AuthorizationDenials.WithLabelValues("not_in_hierarchy")))
}
