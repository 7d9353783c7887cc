package main_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pinnacledb/qtd"
	main "github.com/pinnacledb/qtd/cmd/qtd"
	"github.com/pinnacledb/qtd/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUICmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("quits on ctrl+c", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		deps := &main.Dependencies{
			Ctx:     ctx,
			Stdin:   strings.NewReader("\x03"),
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			Logger:  discardLogger(),
			Timeout: time.Second,
			Client:  &mock.QueryClient{},
		}

		err := (&main.TUICmd{}).Run(deps)

		require.NoError(t, err)
		assert.NoError(t, ctx.Err(), "program should quit before the deadline")
	})

	t.Run("rejects unknown preselected knowledge base", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Logger: discardLogger(),
			Client: &mock.QueryClient{},
		}

		err := (&main.TUICmd{KnowledgeBase: "haystack"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, qtd.EINVALID, qtd.ErrorCode(err))
		assert.Contains(t, stderr.String(), "unknown knowledge base")
	})
}
