package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

var (
	ctxType        = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType        = reflect.TypeOf((*error)(nil)).Elem()
	handleType     = reflect.TypeOf((*Handle)(nil)).Elem()
	invocationType = reflect.TypeOf((*Invocation)(nil))
)

// finalize performs a strict parity check between a behavior's declared
// metadata and its Go function signature, and derives the metadata the
// engine binds against: the user-facing parameter list from the input
// struct's `wf` tags, and the effective output port set.
func (b *Behavior) finalize(name string) error {
	b.name = name

	if err := b.deriveParams(); err != nil {
		return err
	}
	if err := b.checkSignature(); err != nil {
		return err
	}
	return b.derivePorts()
}

// deriveParams builds the ordered user-facing parameter list from the
// exported, `wf`-tagged fields of the input struct. Untagged fields are
// invisible to workflow definitions.
func (b *Behavior) deriveParams() error {
	if b.InputType == nil {
		if b.NewInput != nil {
			return fmt.Errorf("NewInput is set but InputType is nil")
		}
		return nil
	}
	if b.NewInput == nil {
		return fmt.Errorf("InputType is set but NewInput is nil")
	}
	if b.InputType.Kind() != reflect.Struct {
		return fmt.Errorf("input type %s is not a struct", b.InputType)
	}

	seen := make(map[string]struct{})
	for i := 0; i < b.InputType.NumField(); i++ {
		field := b.InputType.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("wf")
		if tag == "" || tag == "-" {
			continue
		}

		parts := strings.Split(tag, ",")
		paramName := parts[0]
		if paramName == "" {
			return fmt.Errorf("field %s has a wf tag with an empty name", field.Name)
		}
		if _, dup := seen[paramName]; dup {
			return fmt.Errorf("duplicate parameter name '%s'", paramName)
		}
		seen[paramName] = struct{}{}

		role := RolePort
		for _, opt := range parts[1:] {
			switch opt {
			case "field":
				role = RoleField
			case "port":
				role = RolePort
			default:
				return fmt.Errorf("field %s: unknown wf tag option '%s'", field.Name, opt)
			}
		}

		b.params = append(b.params, Param{
			Name:       paramName,
			Role:       role,
			Type:       field.Type,
			FieldIndex: field.Index,
		})
	}
	return nil
}

// checkSignature verifies the behavior function matches the contract
// documented on Behavior.Fn and records the injected argument types.
func (b *Behavior) checkSignature() error {
	if b.Fn == nil {
		if b.Kind != KindEvent {
			return fmt.Errorf("%s behavior requires a function", b.Kind)
		}
		if b.InputType != nil {
			return fmt.Errorf("event behavior declares an input struct but no function")
		}
		return nil
	}

	fnType := reflect.TypeOf(b.Fn)
	if fnType.Kind() != reflect.Func {
		return fmt.Errorf("Fn is %s, not a function", fnType.Kind())
	}

	if fnType.NumIn() == 0 || fnType.In(0) != ctxType {
		return fmt.Errorf("first argument must be context.Context")
	}

	argEnd := fnType.NumIn()
	if b.InputType != nil {
		want := reflect.PointerTo(b.InputType)
		if fnType.In(argEnd-1) != want {
			return fmt.Errorf("last argument must be %s", want)
		}
		argEnd--
	}

	sawHandle := false
	for i := 1; i < argEnd; i++ {
		argType := fnType.In(i)
		switch {
		case argType == handleType:
			sawHandle = true
		case argType == invocationType:
			// per-run dependency bundle
		default:
			return fmt.Errorf("argument %d has uninjectable type %s", i, argType)
		}
		b.injected = append(b.injected, argType)
	}

	if b.Kind == KindLoop && !sawHandle {
		return fmt.Errorf("loop behavior must take a Handle argument")
	}

	switch fnType.NumOut() {
	case 1:
		if fnType.Out(0) != errType {
			return fmt.Errorf("single return value must be error")
		}
	case 2:
		if fnType.Out(1) != errType {
			return fmt.Errorf("second return value must be error")
		}
		b.hasResult = true
	default:
		return fmt.Errorf("function must return (T, error) or error")
	}
	return nil
}

// derivePorts computes the effective output port set. BooleanBranch
// behaviors without declared ports get one port per boolean-tagged field of
// their result type, so the routing surface follows the result shape.
func (b *Behavior) derivePorts() error {
	if len(b.Ports) > 0 {
		b.ports = append([]string(nil), b.Ports...)
		return nil
	}

	switch b.Kind {
	case KindFunction, KindEvent:
		b.ports = []string{DefaultPort}
	case KindBooleanBranch:
		if !b.hasResult {
			return fmt.Errorf("boolean-branch behavior must return a result to derive ports from")
		}
		ports, err := boolPortsOf(reflect.TypeOf(b.Fn))
		if err != nil {
			return err
		}
		b.ports = ports
	case KindLoop:
		return fmt.Errorf("loop behavior must declare its output ports")
	}
	return nil
}

// boolPortsOf derives port names from the boolean fields of a branch
// behavior's result struct. A `wf` tag overrides the field name.
func boolPortsOf(fnType reflect.Type) ([]string, error) {
	resultType := fnType.Out(0)
	for resultType.Kind() == reflect.Pointer {
		resultType = resultType.Elem()
	}
	if resultType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot derive ports from result type %s; declare Ports explicitly", resultType)
	}

	var ports []string
	for i := 0; i < resultType.NumField(); i++ {
		field := resultType.Field(i)
		if !field.IsExported() || field.Type.Kind() != reflect.Bool {
			continue
		}
		name := field.Name
		if tag := field.Tag.Get("wf"); tag != "" && tag != "-" {
			name = strings.Split(tag, ",")[0]
		}
		ports = append(ports, name)
	}
	if len(ports) == 0 {
		return nil, fmt.Errorf("result type %s has no boolean fields to derive ports from", resultType)
	}
	return ports, nil
}
