package qtd_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pinnacledb/qtd"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := qtd.Errorf(qtd.EBACKEND, "collection %q not found", "fastchat")

	assert.Equal(t, qtd.EBACKEND, qtd.ErrorCode(err))
	assert.Equal(t, "collection \"fastchat\" not found", qtd.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("ask: %w", qtd.Errorf(qtd.ETIMEOUT, "slow"))

	assert.Equal(t, qtd.ETIMEOUT, qtd.ErrorCode(err))
	assert.Equal(t, "slow", qtd.ErrorMessage(err))
}

func TestErrorCode_ForeignError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, qtd.EINTERNAL, qtd.ErrorCode(err))
	assert.Equal(t, "Internal error.", qtd.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, qtd.ErrorCode(nil))
	assert.Empty(t, qtd.ErrorMessage(nil))
}

func TestError_Retryable(t *testing.T) {
	t.Parallel()

	assert.True(t, qtd.Errorf(qtd.ETRANSPORT, "").Retryable())
	assert.True(t, qtd.Errorf(qtd.ETIMEOUT, "").Retryable())
	assert.False(t, qtd.Errorf(qtd.EBACKEND, "").Retryable())
	assert.False(t, qtd.Errorf(qtd.EINVALID, "").Retryable())
}
