package core

import (
	"context"
	"fmt"

	apperrors "cinehub/pkg/errors"
)

// FlowContext carries one flow run: caller input, intermediate values shared
// between steps and the output returned to the caller.
type FlowContext struct {
	Ctx     context.Context
	UserID  string
	Input   map[string]any
	Process map[string]any
	Output  map[string]any
}

func NewFlowContext(ctx context.Context, userID string, input map[string]any) *FlowContext {
	if input == nil {
		input = make(map[string]any)
	}
	return &FlowContext{
		Ctx:     ctx,
		UserID:  userID,
		Input:   input,
		Process: make(map[string]any),
		Output:  make(map[string]any),
	}
}

func (c *FlowContext) ExtractString(key string) (string, error) {
	raw, ok := c.Input[key]
	if !ok {
		return "", MissingParamErr(key)
	}
	s, ok := raw.(string)
	if !ok || IsMissing(s) {
		return "", MissingParamErr(key)
	}
	return s, nil
}

func (c *FlowContext) ExtractStrings(key string) ([]string, error) {
	switch v := c.Input[key].(type) {
	case []string:
		if len(v) == 0 {
			return nil, MissingParamErr(key)
		}
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, apperrors.InvalidInput(fmt.Sprintf("param [%s] item %d is not a string", key, i))
			}
			out = append(out, s)
		}
		if len(out) == 0 {
			return nil, MissingParamErr(key)
		}
		return out, nil
	default:
		return nil, MissingParamErr(key)
	}
}

// Lookup returns a value a previous step stored under key.
func Lookup[T any](c *FlowContext, key string) (T, error) {
	v, ok := c.Process[key].(T)
	if !ok {
		var zero T
		return zero, apperrors.Internal(fmt.Sprintf("flow state [%s] is missing", key), nil)
	}
	return v, nil
}
