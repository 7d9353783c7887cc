package main

import (
	"fmt"
	"net"
	"strings"

	"github.com/pinnacledb/qtd"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	seeds, err := parseSeeds(c.Seed)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qtd.ErrorMessage(err))
		return err
	}
	if err := seed(deps, seeds); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qtd.ErrorMessage(err))
		return err
	}

	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Addr, err)
	}
	deps.Logger.Info("serving", "addr", ln.Addr().String(), "origins", strings.Join(c.AllowedOrigins, ","))
	fmt.Fprintf(deps.Stdout, "Listening on http://%s\n", ln.Addr())

	return deps.Server.Serve(deps.Ctx, ln)
}

// parseSeeds parses KB=DIR pairs.
func parseSeeds(raw []string) (map[qtd.KnowledgeBase]string, error) {
	seeds := make(map[qtd.KnowledgeBase]string, len(raw))
	for _, s := range raw {
		name, dir, ok := strings.Cut(s, "=")
		if !ok || dir == "" {
			return nil, qtd.Errorf(qtd.EINVALID, "seed %q must look like KB=DIR", s)
		}
		kb, err := qtd.ParseKnowledgeBase(name)
		if err != nil {
			return nil, err
		}
		seeds[kb] = dir
	}
	return seeds, nil
}

// seed ingests each seed directory concurrently, skipping knowledge bases that
// already have documents.
func seed(deps *Dependencies, seeds map[qtd.KnowledgeBase]string) error {
	if len(seeds) == 0 {
		return nil
	}

	counts, err := deps.Documents.CountDocuments(deps.Ctx)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(deps.Ctx)
	for kb, dir := range seeds {
		if counts[kb] > 0 {
			deps.Logger.Info("seed skipped", "kb", string(kb), "documents", counts[kb])
			continue
		}
		g.Go(func() error {
			n, err := ingest(ctx, deps.Loader, deps.Documents, kb, dir)
			if err != nil {
				return err
			}
			deps.Logger.Info("seeded", "kb", string(kb), "dir", dir, "documents", n)
			return nil
		})
	}
	return g.Wait()
}
