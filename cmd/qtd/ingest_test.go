package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/pinnacledb/qtd"
	main "github.com/pinnacledb/qtd/cmd/qtd"
	"github.com/pinnacledb/qtd/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("stores loaded documents", func(t *testing.T) {
		t.Parallel()

		var stored []*qtd.Document
		docs := &mock.DocumentService{
			CreateDocumentsFn: func(_ context.Context, d []*qtd.Document) error {
				stored = d
				return nil
			},
		}
		loader := &mock.DocumentLoader{
			LoadFn: func(_ context.Context, kb qtd.KnowledgeBase, root string) ([]*qtd.Document, error) {
				assert.Equal(t, qtd.KnowledgeBaseFastChat, kb)
				assert.Equal(t, "/docs", root)
				return []*qtd.Document{
					{KnowledgeBase: kb, SourceURL: "a.md", Content: "one"},
					{KnowledgeBase: kb, SourceURL: "a.md", Content: "two", Position: 1},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Documents: docs,
			Loader:    loader,
		}

		err := (&main.IngestCmd{KnowledgeBase: "fastchat", Dir: "/docs"}).Run(deps)

		require.NoError(t, err)
		assert.Len(t, stored, 2)
		assert.Contains(t, stdout.String(), "Stored 2 documents for FastChat")
	})

	t.Run("replace deletes existing documents first", func(t *testing.T) {
		t.Parallel()

		var calls []string
		docs := &mock.DocumentService{
			DeleteDocumentsFn: func(_ context.Context, kb qtd.KnowledgeBase) (int, error) {
				calls = append(calls, "delete")
				assert.Equal(t, qtd.KnowledgeBaseLangChain, kb)
				return 7, nil
			},
			CreateDocumentsFn: func(context.Context, []*qtd.Document) error {
				calls = append(calls, "create")
				return nil
			},
		}
		loader := &mock.DocumentLoader{
			LoadFn: func(_ context.Context, kb qtd.KnowledgeBase, _ string) ([]*qtd.Document, error) {
				calls = append(calls, "load")
				return []*qtd.Document{{KnowledgeBase: kb, SourceURL: "x.md", Content: "x"}}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Documents: docs,
			Loader:    loader,
		}

		err := (&main.IngestCmd{KnowledgeBase: "langchain", Dir: "/docs", Replace: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"delete", "load", "create"}, calls)
		assert.Contains(t, stdout.String(), "Removed 7 existing documents")
	})

	t.Run("empty directory stores nothing", func(t *testing.T) {
		t.Parallel()

		docs := &mock.DocumentService{
			CreateDocumentsFn: func(_ context.Context, d []*qtd.Document) error {
				assert.Empty(t, d)
				return nil
			},
		}
		loader := &mock.DocumentLoader{
			LoadFn: func(context.Context, qtd.KnowledgeBase, string) ([]*qtd.Document, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Documents: docs,
			Loader:    loader,
		}

		err := (&main.IngestCmd{KnowledgeBase: "pinnacledb", Dir: "/empty"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No markdown or HTML documentation found")
	})

	t.Run("reports loader error", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    &bytes.Buffer{},
			Stderr:    stderr,
			Documents: &mock.DocumentService{},
			Loader: &mock.DocumentLoader{
				LoadFn: func(context.Context, qtd.KnowledgeBase, string) ([]*qtd.Document, error) {
					return nil, qtd.Errorf(qtd.ENOTFOUND, "directory %q not found", "/nope")
				},
			},
		}

		err := (&main.IngestCmd{KnowledgeBase: "pinnacledb", Dir: "/nope"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, qtd.ENOTFOUND, qtd.ErrorCode(err))
		assert.Contains(t, stderr.String(), "not found")
	})

	t.Run("rejects unknown knowledge base", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr}

		err := (&main.IngestCmd{KnowledgeBase: "nope", Dir: "/docs"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, qtd.EINVALID, qtd.ErrorCode(err))
		assert.Contains(t, stderr.String(), "unknown knowledge base")
	})
}
