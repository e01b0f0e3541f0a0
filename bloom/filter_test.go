package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/searchcrawl/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("http://example.com/a"), "unseen URL tests negative")

	f.Add("http://example.com/a")
	assert.True(t, f.Test("http://example.com/a"), "no false negatives")
	assert.False(t, f.Test("http://example.com/b"))
}

func TestFilter_false_positive_rate(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(10000, 0.01)
	for i := 0; i < 10000; i++ {
		f.Add(fmt.Sprintf("http://example.com/page/%d", i))
	}

	falsePositives := 0
	for i := 0; i < 10000; i++ {
		if f.Test(fmt.Sprintf("http://example.com/other/%d", i)) {
			falsePositives++
		}
	}

	// The configured rate is 1%; allow generous slack.
	assert.Less(t, falsePositives, 500)
}
