package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSources_TwoFiles(t *testing.T) {
	t.Parallel()

	edges, err := ResolveSources(map[string]string{
		"a.py": "import b\n",
		"b.py": "x = 1\n",
	})
	require.NoError(t, err)

	assert.Equal(t, []Edge{
		{ImportingFile: "a.py", Imported: "b.py"},
	}, edges)
}

func TestResolveSources_ExternalModulesAreUnresolved(t *testing.T) {
	t.Parallel()

	edges, err := ResolveSources(map[string]string{
		"app.py": "import os\nimport requests\nimport app_utils\n",
	})
	require.NoError(t, err)

	assert.Equal(t, []Edge{
		{ImportingFile: "app.py", Imported: "app_utils", Unresolved: true},
		{ImportingFile: "app.py", Imported: "os", Unresolved: true},
		{ImportingFile: "app.py", Imported: "requests", Unresolved: true},
	}, edges)
}

func TestResolveSources_PackageInit(t *testing.T) {
	t.Parallel()

	edges, err := ResolveSources(map[string]string{
		"pkg/__init__.py": "",
		"pkg/mod.py":      "y = 2\n",
		"main.py":         "import pkg\nfrom pkg import mod\nfrom pkg.mod import y\n",
	})
	require.NoError(t, err)

	assert.Equal(t, []Edge{
		{ImportingFile: "main.py", Imported: "pkg/__init__.py"},
		{ImportingFile: "main.py", Imported: "pkg/mod.py"},
	}, edges)
}

func TestResolveSources_LongestPrefix(t *testing.T) {
	t.Parallel()

	// importing pkg.mod.attr is satisfied by the file declaring pkg.mod
	edges, err := ResolveSources(map[string]string{
		"pkg/mod.py": "value = 1\n",
		"main.py":    "import pkg.mod.value\n",
	})
	require.NoError(t, err)

	assert.Equal(t, []Edge{
		{ImportingFile: "main.py", Imported: "pkg/mod.py"},
	}, edges)
}

func TestResolveSources_RelativeImports(t *testing.T) {
	t.Parallel()

	edges, err := ResolveSources(map[string]string{
		"pkg/__init__.py":     "",
		"pkg/a.py":            "from . import b\nfrom .b import helper\n",
		"pkg/b.py":            "def helper():\n    pass\n",
		"pkg/sub/deep.py":     "from ..b import helper\n",
		"pkg/sub/__init__.py": "",
	})
	require.NoError(t, err)

	assert.Equal(t, []Edge{
		{ImportingFile: "pkg/a.py", Imported: "pkg/__init__.py"},
		{ImportingFile: "pkg/a.py", Imported: "pkg/b.py"},
		{ImportingFile: "pkg/sub/deep.py", Imported: "pkg/b.py"},
	}, edges)
}

func TestResolveSources_RelativeEscapingRootIsUnresolved(t *testing.T) {
	t.Parallel()

	edges, err := ResolveSources(map[string]string{
		"top.py": "from ..nowhere import thing\n",
	})
	require.NoError(t, err)

	require.Len(t, edges, 1)
	assert.True(t, edges[0].Unresolved)
	assert.Equal(t, "..nowhere", edges[0].Imported)
}

func TestResolveSources_CyclesAreOrdinaryEdges(t *testing.T) {
	t.Parallel()

	edges, err := ResolveSources(map[string]string{
		"a.py": "import b\n",
		"b.py": "import a\n",
	})
	require.NoError(t, err)

	assert.Equal(t, []Edge{
		{ImportingFile: "a.py", Imported: "b.py"},
		{ImportingFile: "b.py", Imported: "a.py"},
	}, edges)
}

func TestResolveSources_DuplicateImportsDeduplicated(t *testing.T) {
	t.Parallel()

	edges, err := ResolveSources(map[string]string{
		"a.py": "import b\nfrom b import x\nfrom b import y\n",
		"b.py": "x = 1\ny = 2\n",
	})
	require.NoError(t, err)

	assert.Equal(t, []Edge{
		{ImportingFile: "a.py", Imported: "b.py"},
	}, edges)
}

func TestResolveSources_SyntaxErrorNamesFile(t *testing.T) {
	t.Parallel()

	_, err := ResolveSources(map[string]string{
		"good.py": "import os\n",
		"bad.py":  "def broken(:\n    pass\n",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.py: ")
	var serr *SyntaxError
	assert.ErrorAs(t, err, &serr)
}

func TestResolve_Deterministic(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"a.py":     "import b\nimport c\nimport zlib\n",
		"b.py":     "import c\n",
		"c.py":     "",
		"d/e.py":   "from ..a import thing\nimport b\n",
		"main.py":  "import a\nimport d.e\n",
		"other.py": "from a import thing\n",
	}

	first, err := ResolveSources(files)
	require.NoError(t, err)
	for range 10 {
		again, err := ResolveSources(files)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolve_SortedOutput(t *testing.T) {
	t.Parallel()

	edges, err := ResolveSources(map[string]string{
		"z.py": "import a\n",
		"a.py": "import z\nimport m\n",
	})
	require.NoError(t, err)

	require.Len(t, edges, 3)
	assert.Equal(t, "a.py", edges[0].ImportingFile)
	assert.Equal(t, "m", edges[0].Imported)
	assert.Equal(t, "a.py", edges[1].ImportingFile)
	assert.Equal(t, "z.py", edges[1].Imported)
	assert.Equal(t, "z.py", edges[2].ImportingFile)
}
