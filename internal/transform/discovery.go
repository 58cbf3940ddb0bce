package transform

import (
	"encoding/json"

	"github.com/statewire/statewire/internal/ast"
	"github.com/statewire/statewire/internal/pipeline"
	"github.com/statewire/statewire/internal/registry"
)

// classifyDefault captures the static default of a managed initializer for
// the emitted registry artifacts. Anything not statically known degrades to
// a non-literal marker; the runtime initializer itself still flows into the
// hoisted state object untouched.
func classifyDefault(expr ast.Expression) registry.Default {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return registry.Default{Kind: registry.KindNumber, Number: e.Value}
	case *ast.StringLiteral:
		return registry.Default{Kind: registry.KindString, Str: e.Value}
	case *ast.BooleanLiteral:
		return registry.Default{Kind: registry.KindBool, Bool: e.Value}
	case *ast.NullLiteral:
		return registry.Default{Kind: registry.KindNull}
	case *ast.UnaryExpression:
		if num, ok := e.Operand.(*ast.NumberLiteral); ok && e.Operator == "-" {
			return registry.Default{Kind: registry.KindNumber, Number: -num.Value}
		}
	case *ast.ArrayLiteral:
		arr := make([]registry.Default, 0, len(e.Elements))
		for _, el := range e.Elements {
			d := classifyDefault(el)
			if d.Kind == registry.KindNonLiteral {
				// Position matters in arrays; unknowable elements hold a
				// null placeholder instead of shifting the rest.
				d = registry.Default{Kind: registry.KindNull}
			}
			arr = append(arr, d)
		}
		return registry.Default{Kind: registry.KindArray, Arr: arr}
	case *ast.ObjectLiteral:
		obj := make([]registry.DefaultField, 0, len(e.Properties))
		for _, prop := range e.Properties {
			if prop.Spread != nil || prop.Computed {
				continue
			}
			key := ""
			switch k := prop.Key.(type) {
			case *ast.Identifier:
				key = k.Value
			case *ast.StringLiteral:
				key = k.Value
			default:
				continue
			}
			d := classifyDefault(prop.Value)
			if d.Kind == registry.KindNonLiteral {
				continue
			}
			obj = append(obj, registry.DefaultField{Key: key, Value: d})
		}
		return registry.Default{Kind: registry.KindObject, Obj: obj}
	}
	return registry.NonLiteral()
}

// recordRegistration appends a replayable record so the build cache can
// repopulate the registry for this file without re-parsing it.
func (t *Transformer) recordRegistration(scopeKey, variable string, def registry.Default) {
	encoded, err := json.Marshal(def)
	if err != nil {
		encoded = nil
	}
	t.ctx.Registrations = append(t.ctx.Registrations, pipeline.Registration{
		ScopeKey: scopeKey,
		Variable: variable,
		Default:  encoded,
	})
}
