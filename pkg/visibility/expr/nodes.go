package expr

import (
	"strings"

	"github.com/goliatone/go-formpresenter/pkg/visibility"
)

type node interface {
	eval(ctx visibility.Context) (bool, error)
}

type orNode struct{ left, right node }

func (n orNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(ctx)
}

type andNode struct{ left, right node }

func (n andNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(ctx)
}

type notNode struct{ inner node }

func (n notNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type truthyNode struct{ identifier string }

func (n truthyNode) eval(ctx visibility.Context) (bool, error) {
	value, _ := lookup(ctx, n.identifier)
	return visibility.Truthy(value), nil
}

type compareNode struct {
	identifier string
	op         tokenKind
	value      any
}

func (n compareNode) eval(ctx visibility.Context) (bool, error) {
	got, _ := lookup(ctx, n.identifier)
	switch n.op {
	case tokenEq:
		return visibility.LooseEqual(got, n.value), nil
	case tokenNeq:
		return !visibility.LooseEqual(got, n.value), nil
	}

	left, ok := visibility.CoerceNumber(got)
	if !ok {
		return false, nil
	}
	right := n.value.(float64)
	switch n.op {
	case tokenLt:
		return left < right, nil
	case tokenLte:
		return left <= right, nil
	case tokenGt:
		return left > right, nil
	default:
		return left >= right, nil
	}
}

type inNode struct {
	identifier string
	values     []any
}

func (n inNode) eval(ctx visibility.Context) (bool, error) {
	got, _ := lookup(ctx, n.identifier)
	for _, candidate := range n.values {
		if visibility.LooseEqual(got, candidate) {
			return true, nil
		}
	}
	return false, nil
}

const extrasPrefix = "extras."

func lookup(ctx visibility.Context, key string) (any, bool) {
	if strings.HasPrefix(strings.ToLower(key), extrasPrefix) {
		return lookupPath(ctx.Extras, key[len(extrasPrefix):])
	}
	return lookupPath(ctx.Values, key)
}

func lookupPath(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	// Model keys may themselves contain dots.
	if v, ok := values[path]; ok {
		return v, true
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}
