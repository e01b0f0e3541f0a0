package searchcrawl_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/searchcrawl"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("returns code for application error", func(t *testing.T) {
		t.Parallel()
		err := searchcrawl.Errorf(searchcrawl.ENOTFOUND, "document not found")
		assert.Equal(t, searchcrawl.ENOTFOUND, searchcrawl.ErrorCode(err))
	})

	t.Run("unwraps wrapped errors", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("lookup: %w", searchcrawl.Errorf(searchcrawl.EINVALID, "bad url"))
		assert.Equal(t, searchcrawl.EINVALID, searchcrawl.ErrorCode(err))
	})

	t.Run("returns EINTERNAL for unknown errors", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, searchcrawl.EINTERNAL, searchcrawl.ErrorCode(errors.New("boom")))
	})

	t.Run("returns empty string for nil", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", searchcrawl.ErrorCode(nil))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	err := searchcrawl.Errorf(searchcrawl.EINVALID, "source %q has no URL", "blog")
	assert.Equal(t, `source "blog" has no URL`, searchcrawl.ErrorMessage(err))
	assert.Equal(t, "Internal error.", searchcrawl.ErrorMessage(errors.New("boom")))
}
