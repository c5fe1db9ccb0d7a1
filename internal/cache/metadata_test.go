package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/diagnostic"
)

type stubCop struct {
	cop.Base
	name string
}

func (s stubCop) Name() string                        { return s.name }
func (s stubCop) DefaultSeverity() diagnostic.Severity { return diagnostic.SeverityConvention }
func (s stubCop) DefaultEnabled() bool                 { return true }

func TestLoadOrBuildMetadata_BuildsThenReusesUntilFingerprintChanges(t *testing.T) {
	reg := cop.NewRegistry()
	reg.Register(stubCop{name: "Layout/TrailingWhitespace"})
	reg.Register(stubCop{name: "Metrics/ParameterLists"})

	c, err := New(t.TempDir())
	require.NoError(t, err)

	m, err := c.LoadOrBuildMetadata(reg, "v1")
	require.NoError(t, err)
	assert.Equal(t, 2, m.CopCount)
	assert.Equal(t, []string{"Layout", "Metrics"}, m.Departments)

	reg.Register(stubCop{name: "Style/RedundantSelf"})
	m2, err := c.LoadOrBuildMetadata(reg, "v1")
	require.NoError(t, err)
	assert.Equal(t, 2, m2.CopCount, "stale fingerprint-matched cache entry should still be reused")

	m3, err := c.LoadOrBuildMetadata(reg, "v2")
	require.NoError(t, err)
	assert.Equal(t, 3, m3.CopCount, "a new binary fingerprint must force a rebuild")
}
