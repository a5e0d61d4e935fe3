package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"a": 1, "b": 2}
	b := map[string]int{"b": 3, "c": 4}

	merged := maps.Collect(IterSeq2Concat(maps.All(a), nil, maps.All(b)))
	assert.Equal(map[string]int{"a": 1, "b": 3, "c": 4}, merged)

	keys := slices.Sorted(maps.Keys(maps.Collect(IterSeq2Concat[string, int]())))
	assert.Empty(keys)
}

func TestIterSeq2Concat_Stop(t *testing.T) {
	assert := assert.New(t)

	first := slices.All([]string{"x", "y"})
	second := slices.All([]string{"z"})

	var seen []string
	for _, value := range IterSeq2Concat(first, second) {
		seen = append(seen, value)
		if len(seen) == 2 {
			break
		}
	}

	assert.Equal([]string{"x", "y"}, seen)
}
