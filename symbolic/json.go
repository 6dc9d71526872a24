package symbolic

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ============================================================
// JSON Serialization
// ============================================================

// ToJSON encodes e as a tree of {"type": ...} objects.
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// JSONTree returns the map form that ToJSON marshals.
func JSONTree(e Expr) map[string]interface{} { return e.toJSON() }

// FromJSON decodes the map form produced by ToJSON after a round trip
// through encoding/json.
func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typ, ok := data["type"].(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	children := func(field string) ([]Expr, error) {
		raw, ok := data[field].([]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an array", typ, field)
		}
		out := make([]Expr, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s: %q[%d] must be an object", typ, field, i)
			}
			e, err := FromJSON(m)
			if err != nil {
				return nil, fmt.Errorf("%s: %s[%d]: %w", typ, field, i, err)
			}
			out[i] = e
		}
		return out, nil
	}
	child := func(field string) (Expr, error) {
		m, ok := data[field].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an object", typ, field)
		}
		e, err := FromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return e, nil
	}
	name := func() (string, error) {
		s, ok := data["name"].(string)
		if !ok || s == "" {
			return "", fmt.Errorf("%s: \"name\" must be a non-empty string", typ)
		}
		return s, nil
	}

	switch typ {
	case "num":
		var r *big.Rat
		switch v := data["value"].(type) {
		case string:
			if rr, ok := new(big.Rat).SetString(v); ok {
				r = rr
			}
		case float64:
			r = new(big.Rat).SetFloat64(v)
		}
		if r == nil {
			return nil, fmt.Errorf("num: invalid value %v", data["value"])
		}
		return &Num{val: r}, nil

	case "sym":
		n, err := name()
		if err != nil {
			return nil, err
		}
		return S(n), nil

	case "add":
		terms, err := children("terms")
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil

	case "mul":
		factors, err := children("factors")
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil

	case "pow":
		base, err := child("base")
		if err != nil {
			return nil, err
		}
		exp, err := child("exp")
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil

	case "func":
		n, err := name()
		if err != nil {
			return nil, err
		}
		if _, known := builtins[n]; !known {
			return nil, fmt.Errorf("func: %w: %s", ErrUnknownFunction, n)
		}
		arg, err := child("arg")
		if err != nil {
			return nil, err
		}
		return funcOf(n, arg).Simplify(), nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}
