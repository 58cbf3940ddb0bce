package emitter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewire/statewire/internal/config"
	"github.com/statewire/statewire/internal/registry"
)

func sampleSnapshot() []registry.SnapshotEntry {
	return []registry.SnapshotEntry{
		{
			ScopeKey:      "AdminPanel_aaaa1111",
			ContextName:   "CTX_AdminPanel_aaaa1111",
			VariableNames: []string{"adminName"},
			Defaults: map[string]registry.Default{
				"adminName": {Kind: registry.KindString, Str: "root"},
			},
		},
		{
			ScopeKey:      "Counter_bbbb2222",
			ContextName:   "CTX_Counter_bbbb2222",
			VariableNames: []string{"count", "user", "tags"},
			Defaults: map[string]registry.Default{
				"count": {Kind: registry.KindNumber, Number: 0},
				"user":  {Kind: registry.KindNonLiteral},
				"tags": {Kind: registry.KindArray, Arr: []registry.Default{
					{Kind: registry.KindNumber, Number: 1},
					{Kind: registry.KindString, Str: "two"},
				}},
			},
		},
	}
}

func TestRenderSharedModule(t *testing.T) {
	got := RenderSharedModule(sampleSnapshot())

	want := `import ReactSW from "react";

const CTX_AdminPanel_aaaa1111 = ReactSW.createContext({
  adminPanel: {
    adminName: "root",
  },
  setAdminPanel: undefined,
});

const CTX_Counter_bbbb2222 = ReactSW.createContext({
  counter: {
    count: 0,
    user: undefined,
    tags: [1, "two"],
  },
  setCounter: undefined,
});

export default { CTX_AdminPanel_aaaa1111, CTX_Counter_bbbb2222 };
`
	assert.Equal(t, want, got)
}

func TestRenderSharedModuleEmpty(t *testing.T) {
	got := RenderSharedModule(nil)
	assert.Equal(t, "import ReactSW from \"react\";\n\nexport default {};\n", got)
}

func TestRenderSharedModuleIsDeterministic(t *testing.T) {
	a := RenderSharedModule(sampleSnapshot())
	b := RenderSharedModule(sampleSnapshot())
	assert.Equal(t, a, b)
}

func TestRenderDefaultKinds(t *testing.T) {
	tests := []struct {
		def  registry.Default
		want string
	}{
		{registry.Default{Kind: registry.KindNumber, Number: 3.5}, "3.5"},
		{registry.Default{Kind: registry.KindString, Str: `say "hi"`}, `"say \"hi\""`},
		{registry.Default{Kind: registry.KindBool, Bool: true}, "true"},
		{registry.Default{Kind: registry.KindNull}, "null"},
		{registry.Default{Kind: registry.KindNonLiteral}, "undefined"},
		{registry.Default{Kind: registry.KindObject, Obj: []registry.DefaultField{
			{Key: "a", Value: registry.Default{Kind: registry.KindNumber, Number: 1}},
		}}, "{ a: 1 }"},
		{registry.Default{Kind: registry.KindObject}, "{}"},
		{registry.Default{Kind: registry.KindArray}, "[]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, renderDefault(tt.def))
	}
}

func TestRenderGlobals(t *testing.T) {
	data, err := RenderGlobals(sampleSnapshot())
	require.NoError(t, err)

	var globals map[string]string
	require.NoError(t, json.Unmarshal(data, &globals))
	assert.Equal(t, "readonly", globals["CTX_AdminPanel_aaaa1111"])
	assert.Equal(t, "readonly", globals["CTX_Counter_bbbb2222"])
	assert.Equal(t, "readonly", globals[config.FrameworkAlias])
	assert.Equal(t, "readonly", globals[config.SharedModuleAlias])

	// One entry per registered variable name, across every scope.
	for _, name := range []string{"adminName", "count", "user", "tags"} {
		assert.Equal(t, "readonly", globals[name], name)
	}

	// MarshalIndent sorts keys, so repeated renders are byte-identical.
	again, err := RenderGlobals(sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestEmitWritesFiles(t *testing.T) {
	cfg := config.Default()
	cfg.Root = t.TempDir()

	require.NoError(t, New(cfg).Emit(sampleSnapshot()))

	module, err := os.ReadFile(filepath.Join(cfg.Root, cfg.ContextModule))
	require.NoError(t, err)
	assert.Contains(t, string(module), "CTX_Counter_bbbb2222")

	globals, err := os.ReadFile(filepath.Join(cfg.Root, "src", config.GlobalsFileBase))
	require.NoError(t, err)
	assert.Contains(t, string(globals), "CTX_AdminPanel_aaaa1111")
}
