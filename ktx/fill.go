package ktx

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FillFunc writes the contents of the blob at index into blob, which has the size
// returned by the size callback passed to Fill.
type FillFunc func(ctx context.Context, index BlobIndex, blob []byte) error

// Fill allocates every blob to sizeOf(index) bytes, then runs fill for all blobs
// concurrently, up to the limit set by WithConcurrency. The first error cancels
// the context passed to the remaining calls and is returned.
func (b *Bundle) Fill(ctx context.Context, sizeOf func(BlobIndex) uint32, fill FillFunc, opts ...Option) error {
	config := newConfig(opts)
	logger := config.Logger

	for index := range b.Indices() {
		if err := b.AllocateBlob(index, sizeOf(index)); err != nil {
			return err
		}
	}

	logger.Debug("libktx: fill", "count", b.BlobCount(), "concurrency", config.Concurrency)
	g, gctx := errgroup.WithContext(ctx)
	if config.Concurrency > 0 {
		g.SetLimit(config.Concurrency)
	}
	for index, blob := range b.Blobs() {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return fill(gctx, index, blob)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
