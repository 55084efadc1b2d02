// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package workflow

import (
	"fmt"
	"go/token"
)

// applyBinaryOp implements the small set of binary operators a workflow
// program may use. Arithmetic works on int/float64; equality and string
// concatenation are also supported. Origin combination is the caller's
// responsibility (evalBinary) — this function only touches raw data.
func applyBinaryOp(op token.Token, left, right any) (any, error) {
	switch op {
	case token.ADD:
		return numericOrString(left, right, "+",
			func(a, b float64) float64 { return a + b },
			func(a, b string) string { return a + b })
	case token.SUB:
		return numeric(left, right, "-", func(a, b float64) float64 { return a - b })
	case token.MUL:
		return numeric(left, right, "*", func(a, b float64) float64 { return a * b })
	case token.QUO:
		if li, lok := left.(int); lok {
			if ri, rok := right.(int); rok {
				if ri == 0 {
					return nil, fmt.Errorf("integer division by zero")
				}
				return li / ri, nil
			}
		}
		return numeric(left, right, "/", func(a, b float64) float64 { return a / b })
	case token.EQL:
		return left == right, nil
	case token.NEQ:
		return left != right, nil
	case token.LSS, token.LEQ, token.GTR, token.GEQ:
		return compareNumeric(op, left, right)
	case token.LAND:
		return asBool(left) && asBool(right), nil
	case token.LOR:
		return asBool(left) || asBool(right), nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %v", op)
	}
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

// preserveInt reports whether both operands were ints, so an arithmetic
// result can be rendered back as an int rather than a float64.
func preserveInt(a, b any) bool {
	_, aok := a.(int)
	_, bok := b.(int)
	return aok && bok
}

func numeric(left, right any, op string, fn func(a, b float64) float64) (any, error) {
	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return nil, fmt.Errorf("operator %s requires numeric operands", op)
	}
	result := fn(lf, rf)
	if preserveInt(left, right) && result == float64(int(result)) {
		return int(result), nil
	}
	return result, nil
}

func numericOrString(left, right any, op string, numFn func(a, b float64) float64, strFn func(a, b string) string) (any, error) {
	ls, lok := left.(string)
	rs, rok := right.(string)
	if lok && rok {
		return strFn(ls, rs), nil
	}
	return numeric(left, right, op, numFn)
}

func compareNumeric(op token.Token, left, right any) (any, error) {
	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return nil, fmt.Errorf("comparison operator requires numeric operands")
	}
	switch op {
	case token.LSS:
		return lf < rf, nil
	case token.LEQ:
		return lf <= rf, nil
	case token.GTR:
		return lf > rf, nil
	case token.GEQ:
		return lf >= rf, nil
	default:
		return nil, fmt.Errorf("unsupported comparison operator %v", op)
	}
}
