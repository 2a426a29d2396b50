package typeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	set := NewSet("b", "a")
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contain("a", "b"))
	assert.False(t, set.Contain("a", "c"))

	assert.True(t, set.TryInsert("c"))
	assert.False(t, set.TryInsert("c"))
	assert.Equal(t, []string{"a", "b", "c"}, Sorted(set))

	set.Insert("a")
	assert.ElementsMatch(t, []string{"a", "b", "c"}, set.Collect())
}
