package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_ImportsAndVariables(t *testing.T) {
	t.Parallel()

	mod, err := Parse("import os\nimport sys\n\nDEBUG = True\n")
	require.NoError(t, err)

	assert.Equal(t, Counts{ImportCount: 2, VariableCount: 1}, Summarize(mod))
}

func TestSummarize_MethodsAndNestedFunctionsCount(t *testing.T) {
	t.Parallel()

	source := `class Store:
    def get(self, key):
        def miss():
            pass
        return miss

    def put(self, key, value):
        pass

def top():
    pass
`
	mod, err := Parse(source)
	require.NoError(t, err)

	c := Summarize(mod)
	assert.Equal(t, 4, c.FunctionCount, "methods and nested functions all count")
	assert.Equal(t, 1, c.ClassCount)
}

func TestSummarize_NestedClasses(t *testing.T) {
	t.Parallel()

	source := `class Outer:
    class Inner:
        def m(self):
            pass
`
	mod, err := Parse(source)
	require.NoError(t, err)

	c := Summarize(mod)
	assert.Equal(t, 2, c.ClassCount)
	assert.Equal(t, 1, c.FunctionCount)
}

func TestSummarize_AllScopesCountAsVariables(t *testing.T) {
	t.Parallel()

	source := `A = 1

class C:
    b = 2

    def m(self):
        c = 3
`
	mod, err := Parse(source)
	require.NoError(t, err)

	assert.Equal(t, 3, Summarize(mod).VariableCount)
}

func TestSummarize_EmptyModule(t *testing.T) {
	t.Parallel()

	mod, err := Parse("")
	require.NoError(t, err)

	assert.Equal(t, Counts{}, Summarize(mod))
}

func TestSummarize_MergedPropertiesAreNotFunctions(t *testing.T) {
	t.Parallel()

	source := `class T:
    @property
    def v(self):
        return 1

    @v.setter
    def v(self, value):
        pass

    def plain(self):
        pass
`
	mod, err := Parse(source)
	require.NoError(t, err)

	assert.Equal(t, 1, Summarize(mod).FunctionCount, "accessor pairs are properties, not methods")
}
