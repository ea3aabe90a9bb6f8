package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/dfpattern/pkg/expr"
	"github.com/gitrdm/dfpattern/pkg/opattrs"
	"github.com/gitrdm/dfpattern/pkg/pattern"
)

func TestRelaxNamesRegisteredAtInit(t *testing.T) {
	_, ok := Get(NameMatch)
	require.True(t, ok, "relax.dataflow_pattern.match must self-register via init()")
	_, ok = Get(NameMatchExpr)
	require.True(t, ok, "relax.dataflow_pattern.match_expr must self-register via init()")
}

func TestMustGetPanicsOnUnknownName(t *testing.T) {
	assert.Panics(t, func() { MustGet("no.such.entry") })
}

func TestRelaxMatchDelegatesToMatcher(t *testing.T) {
	expr.RegisterStructuralEqual(expr.DefaultStructuralEqual)
	fn := MustGet(NameMatch)
	assert.True(t, fn(pattern.NewWildcard(), expr.NewConstant(1)))
	assert.False(t, fn(pattern.NewConstantPattern(), expr.NewVar("x")))
}

func TestRelaxMatchConsultsOpAttrRegistry(t *testing.T) {
	expr.RegisterStructuralEqual(expr.DefaultStructuralEqual)
	fn := MustGet(NameMatch)

	conv := expr.NewCall(expr.NewOp("conv2d"), []expr.Expr{expr.NewVar("x"), expr.NewVar("w")}, nil)
	p := pattern.NewCall(pattern.NewAttr(pattern.NewOp("conv2d"), map[string]interface{}{"padding": "SAME"}),
		pattern.NewWildcard(), pattern.NewWildcard())

	reg := &opattrs.Registry{Ops: map[string]opattrs.OpSpec{
		"conv2d": {Attrs: map[string]interface{}{"padding": "VALID"}},
	}}
	assert.False(t, fn(p, conv, reg), "registry says padding=VALID, pattern wants SAME")

	assert.True(t, fn(p, conv), "the default op-attribute registry seeds conv2d with padding=SAME")
}

func TestRegisterOverwrites(t *testing.T) {
	Register("test.entry", func(pat, candidate interface{}, opts ...interface{}) bool { return true })
	fn, ok := Get("test.entry")
	require.True(t, ok)
	assert.True(t, fn(nil, nil))

	Register("test.entry", func(pat, candidate interface{}, opts ...interface{}) bool { return false })
	fn, ok = Get("test.entry")
	require.True(t, ok)
	assert.False(t, fn(nil, nil))
}
