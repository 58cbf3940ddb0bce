// Package emitter writes the build-level artifacts derived from the
// registry: the shared-context module every transformed file imports, and
// the lint allowlist for the generated global names. Output is a pure
// function of the registry snapshot; repeated builds of the same program
// produce byte-identical files.
package emitter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/statewire/statewire/internal/config"
	"github.com/statewire/statewire/internal/naming"
	"github.com/statewire/statewire/internal/registry"
)

type Emitter struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Emitter {
	return &Emitter{cfg: cfg}
}

// Emit writes both artifacts under the project root.
func (e *Emitter) Emit(snapshot []registry.SnapshotEntry) error {
	modulePath := filepath.Join(e.cfg.Root, e.cfg.ContextModule)
	if err := os.MkdirAll(filepath.Dir(modulePath), 0o755); err != nil {
		return fmt.Errorf("emit shared module: %w", err)
	}
	if err := os.WriteFile(modulePath, []byte(RenderSharedModule(snapshot)), 0o644); err != nil {
		return fmt.Errorf("emit shared module: %w", err)
	}

	globalsPath := filepath.Join(filepath.Dir(modulePath), config.GlobalsFileBase)
	data, err := RenderGlobals(snapshot)
	if err != nil {
		return fmt.Errorf("emit globals: %w", err)
	}
	if err := os.WriteFile(globalsPath, data, 0o644); err != nil {
		return fmt.Errorf("emit globals: %w", err)
	}
	return nil
}

// RenderSharedModule renders the shared-context module: one createContext
// per owner, defaults mirroring the provider value shape, and a default
// export collecting every context.
func RenderSharedModule(snapshot []registry.SnapshotEntry) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "import %s from %q;\n\n", config.FrameworkAlias, config.FrameworkModule)

	for _, entry := range snapshot {
		owner := naming.OwnerOfScopeKey(entry.ScopeKey)
		lower := naming.LowerFirst(owner)
		fmt.Fprintf(&buf, "const %s = %s.createContext({\n", entry.ContextName, config.FrameworkAlias)
		fmt.Fprintf(&buf, "  %s: {\n", lower)
		for _, name := range entry.VariableNames {
			fmt.Fprintf(&buf, "    %s: %s,\n", name, renderDefault(entry.Defaults[name]))
		}
		buf.WriteString("  },\n")
		fmt.Fprintf(&buf, "  %s: undefined,\n", naming.SetterName(owner))
		buf.WriteString("});\n\n")
	}

	buf.WriteString("export default {")
	for i, entry := range snapshot {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString(" " + entry.ContextName)
	}
	if len(snapshot) > 0 {
		buf.WriteString(" ")
	}
	buf.WriteString("};\n")
	return buf.String()
}

// renderDefault renders a captured default as a JS literal. Non-literal
// defaults are rendered as an explicit undefined so the context shape stays
// visible in the generated source.
func renderDefault(d registry.Default) string {
	switch d.Kind {
	case registry.KindNumber:
		return strconv.FormatFloat(d.Number, 'f', -1, 64)
	case registry.KindString:
		return strconv.Quote(d.Str)
	case registry.KindBool:
		return strconv.FormatBool(d.Bool)
	case registry.KindNull:
		return "null"
	case registry.KindArray:
		var buf bytes.Buffer
		buf.WriteString("[")
		for i, el := range d.Arr {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(renderDefault(el))
		}
		buf.WriteString("]")
		return buf.String()
	case registry.KindObject:
		var buf bytes.Buffer
		buf.WriteString("{")
		for i, field := range d.Obj {
			if i > 0 {
				buf.WriteString(",")
			}
			fmt.Fprintf(&buf, " %s: %s", field.Key, renderDefault(field.Value))
		}
		if len(d.Obj) > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString("}")
		return buf.String()
	default:
		return "undefined"
	}
}

// RenderGlobals renders the lint allowlist: every registered variable name
// and every generated name the transformed sources may reference without
// declaring, marked readonly.
func RenderGlobals(snapshot []registry.SnapshotEntry) ([]byte, error) {
	globals := map[string]string{
		config.FrameworkAlias:    "readonly",
		config.SharedModuleAlias: "readonly",
	}
	for _, entry := range snapshot {
		globals[entry.ContextName] = "readonly"
		for _, name := range entry.VariableNames {
			globals[name] = "readonly"
		}
	}
	data, err := json.MarshalIndent(globals, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
