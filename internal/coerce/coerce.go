// Package coerce is the binding layer between dynamically-typed port data
// and statically-typed behavior parameters.
//
// Conversion policy follows the engine's contract: coercion is best-effort
// and never fails. Numeric widening/narrowing, string/number/bool
// conversions, and element-wise collection conversions are attempted through
// go-cty's conversion machinery; when a value cannot be converted, the
// original value is passed through unchanged and any resulting failure is
// deferred to the behavior itself.
package coerce

import (
	"reflect"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Value attempts to convert v into something assignable to the target type.
// On any conversion failure the original value is returned unchanged.
func Value(v any, target reflect.Type) any {
	if v == nil || target == nil {
		return v
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(target) {
		return v
	}
	if target.Kind() == reflect.Interface && rv.Type().Implements(target) {
		return v
	}

	if out, ok := viaCty(v, target); ok {
		return out
	}
	if out, ok := viaKind(rv, target); ok {
		return out
	}
	if out, ok := viaElements(rv, target); ok {
		return out
	}
	return v
}

// viaCty round-trips the value through cty: imply the source type, convert
// to the type implied by the target, and decode back into a fresh Go value.
func viaCty(v any, target reflect.Type) (any, bool) {
	srcType, err := gocty.ImpliedType(v)
	if err != nil {
		return nil, false
	}
	val, err := gocty.ToCtyValue(v, srcType)
	if err != nil {
		return nil, false
	}

	dstType, err := gocty.ImpliedType(reflect.Zero(target).Interface())
	if err != nil {
		return nil, false
	}
	converted, err := convert.Convert(val, dstType)
	if err != nil {
		return nil, false
	}

	out := reflect.New(target)
	if err := gocty.FromCtyValue(converted, out.Interface()); err != nil {
		return nil, false
	}
	return out.Elem().Interface(), true
}

// viaKind handles plain numeric widening/narrowing that cty does not need to
// be involved in.
func viaKind(rv reflect.Value, target reflect.Type) (any, bool) {
	if !isNumericKind(rv.Kind()) || !isNumericKind(target.Kind()) {
		return nil, false
	}
	if !rv.Type().ConvertibleTo(target) {
		return nil, false
	}
	return rv.Convert(target).Interface(), true
}

// viaElements converts slices and string-keyed maps element-wise, which
// covers JSON-shaped data ([]any, map[string]any) that gocty cannot imply a
// type for.
func viaElements(rv reflect.Value, target reflect.Type) (any, bool) {
	switch {
	case rv.Kind() == reflect.Slice && target.Kind() == reflect.Slice:
		out := reflect.MakeSlice(target, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem := Value(rv.Index(i).Interface(), target.Elem())
			ev := reflect.ValueOf(elem)
			if elem == nil || !ev.Type().AssignableTo(target.Elem()) {
				return nil, false
			}
			out.Index(i).Set(ev)
		}
		return out.Interface(), true

	case rv.Kind() == reflect.Map && target.Kind() == reflect.Map &&
		rv.Type().Key().Kind() == reflect.String && target.Key().Kind() == reflect.String:
		out := reflect.MakeMapWithSize(target, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			elem := Value(iter.Value().Interface(), target.Elem())
			ev := reflect.ValueOf(elem)
			if elem == nil || !ev.Type().AssignableTo(target.Elem()) {
				return nil, false
			}
			out.SetMapIndex(iter.Key().Convert(target.Key()), ev)
		}
		return out.Interface(), true
	}
	return nil, false
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// GoValue lowers a cty value into the plain JSON-like Go representation the
// engine moves along data ports: bool, float64, string, []any, and
// map[string]any.
func GoValue(val cty.Value) any {
	if val.IsNull() || !val.IsKnown() {
		return nil
	}
	ty := val.Type()
	switch {
	case ty == cty.Bool:
		return val.True()
	case ty == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f
	case ty == cty.String:
		return val.AsString()
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			out = append(out, GoValue(elem))
		}
		return out
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			out[key.AsString()] = GoValue(elem)
		}
		return out
	default:
		return nil
	}
}

// Truthy interprets a port value as a boolean condition. Booleans are taken
// as-is; other values go through the standard conversion and are false when
// conversion fails.
func Truthy(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	if b, ok := Value(v, reflect.TypeOf(false)).(bool); ok {
		return b
	}
	return false
}
