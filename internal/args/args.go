// Package args parses argument lists for bulk store operations.
package args

import (
	"errors"
	"fmt"
)

// ErrOddPairList reports a flat key/value list whose length is not even.
var ErrOddPairList = errors.New("cachekit: key/value list has odd length")

// BadKeyError reports a pair-list element in key position that is not a
// string.
type BadKeyError struct {
	Index int
	Value any
}

func (e *BadKeyError) Error() string {
	return fmt.Sprintf("cachekit: key at position %d is %T, want string", e.Index, e.Value)
}

// Pair is one key/value member of a bulk write.
type Pair struct {
	Key   string
	Value any
}

// Pairs interprets a flat alternating list ("k1", v1, "k2", v2, ...) as
// key/value pairs. Even positions must hold string keys. Validation happens
// up front so a bad list rejects before anything is written.
func Pairs(list []any) ([]Pair, error) {
	if len(list)%2 != 0 {
		return nil, ErrOddPairList
	}
	out := make([]Pair, 0, len(list)/2)
	for i := 0; i < len(list); i += 2 {
		k, ok := list[i].(string)
		if !ok {
			return nil, &BadKeyError{Index: i, Value: list[i]}
		}
		out = append(out, Pair{Key: k, Value: list[i+1]})
	}
	return out, nil
}

// Flatten joins key groups into one flat key list, preserving order.
func Flatten(groups [][]string) []string {
	var n int
	for _, g := range groups {
		n += len(g)
	}
	if n == 0 {
		return nil
	}
	out := make([]string, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
