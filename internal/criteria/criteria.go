// Package criteria implements single comparison rules (an operator paired with
// an operand) evaluated against one observed event attribute or against an
// event's qualifier list.
package criteria

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/pable/go-opta-metrics/internal/model"
)

// Contract violations. These are programmer errors: callers are expected to
// fix the criterion or the slot it is used in, not to retry.
var (
	ErrUnknownOperator = errors.New("unknown operator")
	ErrOperandShape    = errors.New("operand has the wrong shape for operator")
	ErrNotNumeric      = errors.New("value is not numeric")
	ErrObservedShape   = errors.New("observed value has the wrong shape for operator")
)

// ContractError describes which operator and value broke the contract.
type ContractError struct {
	Op    Operator
	Value any
	Err   error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %v (%T %v)", e.Op, e.Err, e.Value, e.Value)
}

func (e *ContractError) Unwrap() error { return e.Err }

// Operator is the closed set of comparison kinds.
type Operator int

const (
	EQ   Operator = iota + 1 // equal, no coercion
	NEQ                      // not equal, no coercion
	LT                       // less than, numeric
	LTE                      // less than or equal, numeric
	GT                       // greater than, numeric
	GTE                      // greater than or equal, numeric
	BW                       // between [low, high] inclusive, numeric
	IN                       // member of operand collection
	NIN                      // not a member of operand collection
	QIN                      // any qualifier code in operand set
	QNIN                     // no qualifier code in operand set
)

var operatorNames = map[Operator]string{
	EQ:   "equal",
	NEQ:  "not_equal",
	LT:   "less_than",
	LTE:  "less_than_or_equal",
	GT:   "greater_than",
	GTE:  "greater_than_or_equal",
	BW:   "between",
	IN:   "in",
	NIN:  "not_in",
	QIN:  "qualifier_in",
	QNIN: "qualifiers_not_in",
}

func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return "operator(" + strconv.Itoa(int(o)) + ")"
}

// ParseOperator maps an operator name (as printed by String) back to its value.
func ParseOperator(name string) (Operator, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for op, n := range operatorNames {
		if n == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperator, name)
}

// Criterion is an immutable operator/operand pair. The operand is validated
// and normalised once, in New.
type Criterion struct {
	op      Operator
	operand any

	number float64    // LT, LTE, GT, GTE
	bounds [2]float64 // BW
	set    []any      // IN, NIN
	codes  []int      // QIN, QNIN
}

// New builds a Criterion, checking that the operand has the shape op needs:
// a comparable value for EQ/NEQ, a number for ordering operators, a
// two-element [low, high] slice for BW, a slice for IN/NIN and a slice of
// integer codes for QIN/QNIN.
func New(op Operator, operand any) (Criterion, error) {
	c := Criterion{op: op, operand: operand}
	switch op {
	case EQ, NEQ:
		if operand == nil || !reflect.TypeOf(operand).Comparable() {
			return Criterion{}, &ContractError{Op: op, Value: operand, Err: ErrOperandShape}
		}
	case LT, LTE, GT, GTE:
		f, ok := toFloat(operand)
		if !ok {
			return Criterion{}, &ContractError{Op: op, Value: operand, Err: ErrNotNumeric}
		}
		c.number = f
	case BW:
		items, ok := toSlice(operand)
		if !ok || len(items) != 2 {
			return Criterion{}, &ContractError{Op: op, Value: operand, Err: ErrOperandShape}
		}
		for i, item := range items {
			f, ok := toFloat(item)
			if !ok {
				return Criterion{}, &ContractError{Op: op, Value: item, Err: ErrNotNumeric}
			}
			c.bounds[i] = f
		}
	case IN, NIN:
		items, ok := toSlice(operand)
		if !ok {
			return Criterion{}, &ContractError{Op: op, Value: operand, Err: ErrOperandShape}
		}
		for _, item := range items {
			if item != nil && !reflect.TypeOf(item).Comparable() {
				return Criterion{}, &ContractError{Op: op, Value: item, Err: ErrOperandShape}
			}
		}
		c.set = items
	case QIN, QNIN:
		items, ok := toSlice(operand)
		if !ok {
			return Criterion{}, &ContractError{Op: op, Value: operand, Err: ErrOperandShape}
		}
		c.codes = make([]int, 0, len(items))
		for _, item := range items {
			code, ok := toInt(item)
			if !ok {
				return Criterion{}, &ContractError{Op: op, Value: item, Err: ErrOperandShape}
			}
			c.codes = append(c.codes, code)
		}
	default:
		return Criterion{}, &ContractError{Op: op, Value: operand, Err: ErrUnknownOperator}
	}
	return c, nil
}

// MustNew is New for criteria fixed at compile time; it panics on a bad operand.
func MustNew(op Operator, operand any) Criterion {
	c, err := New(op, operand)
	if err != nil {
		panic(err)
	}
	return c
}

// Eq is shorthand for MustNew(EQ, v).
func Eq(v any) Criterion { return MustNew(EQ, v) }

// In is shorthand for an IN criterion over integer codes.
func In(vs ...int) Criterion { return MustNew(IN, vs) }

// QIn matches events carrying at least one of the qualifier codes.
func QIn(codes ...int) Criterion { return MustNew(QIN, codes) }

// QNotIn matches events carrying none of the qualifier codes.
func QNotIn(codes ...int) Criterion { return MustNew(QNIN, codes) }

// Operator returns the comparison kind.
func (c Criterion) Operator() Operator { return c.op }

// Operand returns the operand as supplied to New.
func (c Criterion) Operand() any { return c.operand }

// IsZero reports whether c is the zero Criterion (not built by New).
func (c Criterion) IsZero() bool { return c.op == 0 }

func (c Criterion) String() string {
	return fmt.Sprintf("%s %v", c.op, c.operand)
}

// Evaluate applies the criterion to an observed value. For QIN/QNIN the
// observed value must be a []model.Qualifier; for ordering operators and BW it
// must be numeric (or a numeric string). A mismatch is a contract violation.
func (c Criterion) Evaluate(observed any) (bool, error) {
	switch c.op {
	case EQ:
		return observed == c.operand, nil
	case NEQ:
		return observed != c.operand, nil
	case LT, LTE, GT, GTE:
		v, ok := toFloat(observed)
		if !ok {
			return false, &ContractError{Op: c.op, Value: observed, Err: ErrNotNumeric}
		}
		switch c.op {
		case LT:
			return v < c.number, nil
		case LTE:
			return v <= c.number, nil
		case GT:
			return v > c.number, nil
		default:
			return v >= c.number, nil
		}
	case BW:
		v, ok := toFloat(observed)
		if !ok {
			return false, &ContractError{Op: c.op, Value: observed, Err: ErrNotNumeric}
		}
		return c.bounds[0] <= v && v <= c.bounds[1], nil
	case IN:
		return c.contains(observed), nil
	case NIN:
		return !c.contains(observed), nil
	case QIN, QNIN:
		qs, ok := observed.([]model.Qualifier)
		if !ok {
			return false, &ContractError{Op: c.op, Value: observed, Err: ErrObservedShape}
		}
		for _, q := range qs {
			if c.hasCode(q.TypeID) {
				return c.op == QIN, nil
			}
		}
		return c.op == QNIN, nil
	default:
		return false, &ContractError{Op: c.op, Value: observed, Err: ErrUnknownOperator}
	}
}

func (c Criterion) contains(v any) bool {
	for _, item := range c.set {
		if item == v {
			return true
		}
	}
	return false
}

func (c Criterion) hasCode(code int) bool {
	for _, k := range c.codes {
		if k == code {
			return true
		}
	}
	return false
}

// toSlice flattens any slice or array into []any.
func toSlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toInt(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()), true
	default:
		return 0, false
	}
}
