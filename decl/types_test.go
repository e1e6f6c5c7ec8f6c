package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeAttr(t *testing.T) {
	tests := []struct {
		input   string
		want    TypeAttr
		wantErr bool
	}{
		{"numeric", NumericAttr, false},
		{"bool", BoolAttr, false},
		{"string", StringAttr, false},
		{"object", ObjectAttr, false},
		{"array", ArrayAttr, false},
		{"fn", FunctionAttr, false},
		{"complex", ComplexKind, false},
		{"complex:Point", Complex("Point"), false},
		{"complex:", AnyAttr, true},
		{"numeric:Point", AnyAttr, true},
		{"any", AnyAttr, true},
		{"nope", AnyAttr, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTypeAttr(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeAttrSyntax(t *testing.T) {
	assert.Equal(t, "<numeric>", NumericAttr.Syntax())
	assert.Equal(t, "<complex>", ComplexKind.Syntax())
	assert.Equal(t, "<complex:Point>", Complex("Point").Syntax())
	assert.Equal(t, "fn", FunctionAttr.String())
	assert.True(t, Complex("P").IsComplex())
	assert.False(t, NumericAttr.IsComplex())
}

func TestFlags(t *testing.T) {
	flags := Flags{FlagAssign, StructuralTypeFlag(AttrComplex), ComplexSchemaFlag("Point"), FlagConst}

	assert.True(t, flags.Has(FlagConst))
	assert.True(t, flags.Has(FlagAssign))

	kind, err := flags.StructuralType()
	require.NoError(t, err)
	assert.Equal(t, AttrComplex, kind)

	schema, ok := flags.ComplexSchema()
	assert.True(t, ok)
	assert.Equal(t, "Point", schema)

	declared, err := flags.DeclaredType()
	require.NoError(t, err)
	assert.Equal(t, Complex("Point"), declared)

	assert.Equal(t, []string{"<const>", "<complex:Point>", "<asg>"}, flags.Syntax())
}

func TestFlagsWithoutType(t *testing.T) {
	var flags Flags
	kind, err := flags.StructuralType()
	require.NoError(t, err)
	assert.Equal(t, AttrAny, kind)

	_, ok := flags.ComplexSchema()
	assert.False(t, ok)
	assert.Empty(t, flags.Syntax())

	bad := Flags{Flag("structural-type:mystery")}
	_, err = bad.DeclaredType()
	assert.Error(t, err)
}
