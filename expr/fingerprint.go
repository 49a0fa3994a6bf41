package expr

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/rcstanton/satis/value"
)

// Domain prefix for expression fingerprints. The version suffix leaves room
// for an encoding change without colliding with old fingerprints.
const fingerprintDomain = "satis/expr/v1"

// Fingerprint computes a content-addressed identity for an expression.
//
// The hash covers structure, operators, field names, literal values, and the
// parameter's entity type. Parameter identity and diagnostic name are
// erased: two independently built but structurally equal expressions over
// the same entity type fingerprint equally. That is what makes fingerprints
// usable as memo-cache keys for composition.
func Fingerprint(e Expr) (string, error) {
	encoded, err := encodeNode(e)
	if err != nil {
		return "", err
	}
	canonical, err := value.MarshalCanonical(encoded)
	if err != nil {
		return "", fmt.Errorf("fingerprint: canonical encoding: %w", err)
	}

	// SHA256(domain + 0x00 + encoding); the null byte separates domain
	// from payload so neither can masquerade as part of the other.
	h := sha256.New()
	h.Write([]byte(fingerprintDomain))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// encodeNode maps an expression node to a value.Object for canonical
// encoding. Every node gets a "kind" discriminator.
func encodeNode(e Expr) (value.Value, error) {
	switch n := e.(type) {
	case *Parameter:
		return value.Object{
			"kind":        value.String("param"),
			"entity_type": value.String(n.EntityType),
		}, nil
	case *Literal:
		return value.Object{
			"kind":  value.String("lit"),
			"value": n.Value,
		}, nil
	case *FieldAccess:
		target, err := encodeNode(n.Target)
		if err != nil {
			return nil, err
		}
		return value.Object{
			"kind":   value.String("field"),
			"target": target,
			"name":   value.String(n.Field),
		}, nil
	case *Comparison:
		left, err := encodeNode(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := encodeNode(n.Right)
		if err != nil {
			return nil, err
		}
		return value.Object{
			"kind":  value.String("cmp"),
			"op":    value.String(string(n.Op)),
			"left":  left,
			"right": right,
		}, nil
	case *And:
		return encodeBinary("and", n.Left, n.Right)
	case *Or:
		return encodeBinary("or", n.Left, n.Right)
	case *Not:
		operand, err := encodeNode(n.Operand)
		if err != nil {
			return nil, err
		}
		return value.Object{
			"kind":    value.String("not"),
			"operand": operand,
		}, nil
	default:
		return nil, fmt.Errorf("unknown expression node: %T", e)
	}
}

func encodeBinary(kind string, l, r Expr) (value.Value, error) {
	left, err := encodeNode(l)
	if err != nil {
		return nil, err
	}
	right, err := encodeNode(r)
	if err != nil {
		return nil, err
	}
	return value.Object{
		"kind":  value.String(kind),
		"left":  left,
		"right": right,
	}, nil
}
