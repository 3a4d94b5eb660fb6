package engine

import (
	"context"
	"reflect"
	"sync"

	"github.com/vk/wireflow/internal/coerce"
	"github.com/vk/wireflow/internal/graph"
	"github.com/vk/wireflow/internal/registry"
)

var (
	handleType     = reflect.TypeOf((*registry.Handle)(nil)).Elem()
	invocationType = reflect.TypeOf((*registry.Invocation)(nil))
)

// invoke calls a behavior function for one node: it populates the input
// struct from the node's bindings, injects the Handle and Invocation
// arguments the signature asks for, and unpacks the (result, error) returns.
func (e *Engine) invoke(ctx context.Context, rs *runState, node *graph.Node, beh *registry.Behavior) (any, error) {
	if beh.Fn == nil {
		return nil, nil
	}

	var input any
	if beh.NewInput != nil {
		input = buildInput(rs, node, beh)
	}

	fn := reflect.ValueOf(beh.Fn)
	args := []reflect.Value{reflect.ValueOf(ctx)}
	for _, injected := range beh.Injected() {
		switch injected {
		case handleType:
			args = append(args, reflect.ValueOf(registry.Handle(e.handleFor(rs, node))))
		case invocationType:
			args = append(args, reflect.ValueOf(e.invocation(rs, node)))
		}
	}
	if input != nil {
		args = append(args, reflect.ValueOf(input))
	}

	returns := fn.Call(args)
	var result any
	var err error
	switch len(returns) {
	case 1:
		if !returns[0].IsNil() {
			err = returns[0].Interface().(error)
		}
	case 2:
		result = returns[0].Interface()
		if !returns[1].IsNil() {
			err = returns[1].Interface().(error)
		}
	}
	return result, err
}

// buildInput allocates the behavior's input struct and fills each tagged
// field from the node's bindings, coercing values toward the declared field
// types. Port-role parameters are independent reads of the run state and
// are gathered concurrently. Uncoercible values leave the field at its zero
// value; declare the field as `any` to receive the raw upstream value
// instead.
func buildInput(rs *runState, node *graph.Node, beh *registry.Behavior) any {
	params := beh.Params()
	raws := make([]any, len(params))
	var wg sync.WaitGroup
	for i, param := range params {
		if param.Role != registry.RolePort {
			raws[i] = rs.resolveInput(node, param)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			raws[i] = rs.resolveInput(node, param)
		}()
	}
	wg.Wait()

	input := beh.NewInput()
	structVal := reflect.ValueOf(input).Elem()
	for i, param := range params {
		if raws[i] == nil {
			continue
		}
		field := structVal.FieldByIndex(param.FieldIndex)
		coerced := coerce.Value(raws[i], param.Type)
		cv := reflect.ValueOf(coerced)
		if cv.IsValid() && cv.Type().AssignableTo(field.Type()) {
			field.Set(cv)
		}
	}
	return input
}
