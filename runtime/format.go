package runtime

import (
	"fmt"
	"strings"

	"github.com/panyam/ion/decl"
)

// maxDisplayDepth stops runaway rendering of objects that refer back to
// their own binding through a field alias.
const maxDisplayDepth = 32

// Display renders r with every alias resolved through scope.
func Display(r decl.EvalResult, scope *decl.Scope) (string, error) {
	var sb strings.Builder
	if err := display(&sb, r, scope, 0); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func display(sb *strings.Builder, r decl.EvalResult, scope *decl.Scope, depth int) error {
	if depth > maxDisplayDepth {
		sb.WriteString("...")
		return nil
	}
	value, err := scope.Deref(r)
	if err != nil {
		return err
	}
	switch v := value.(type) {
	case *decl.ObjectLiteral:
		sb.WriteString("{")
		for i, name := range v.Order {
			if i > 0 {
				sb.WriteString(",")
			}
			fmt.Fprintf(sb, " %s: ", name)
			if err := display(sb, v.Fields[name], scope, depth+1); err != nil {
				return err
			}
		}
		if len(v.Order) > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("}")
	case *decl.ArrayLiteral:
		sb.WriteString("[")
		for i, entry := range v.Entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			if err := display(sb, entry, scope, depth+1); err != nil {
				return err
			}
		}
		sb.WriteString("]")
	default:
		sb.WriteString(value.String())
	}
	return nil
}
