package addr

import (
	"bytes"
	"context"
	"encoding/gob"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/laddr/log"
)

// globalCache stores parse results keyed by source and option hashes.
var globalCache sync.Map

// entry is one cached parse, computed once.
type entry struct {
	once sync.Once
	src  string
	root *Node
	rest string
	err  error
}

// hashOptions encodes the parse options using gob and hashes with xxh3.
func hashOptions(opts options) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(opts.strict)
	_ = enc.Encode(opts.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// parseCached parses src, sharing the result with every other parse of the
// same source and options.
func parseCached(
	ctx context.Context,
	src string,
	opts options,
	logger log.Logger,
) (*Node, string, error) {
	sourceHash := xxh3.HashString(src)
	optsHash := hashOptions(opts)
	key := strconv.FormatUint(sourceHash^optsHash, 36)

	value, hit := globalCache.LoadOrStore(key, &entry{src: src})

	logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit))

	e, ok := value.(*entry)
	if !ok || e.src != src {
		// Hash collision.
		return parseSource(ctx, src, opts, logger)
	}

	e.once.Do(func() {
		e.root, e.rest, e.err = parseSource(ctx, src, opts, logger)
	})

	return e.root, e.rest, e.err
}

// ClearCache removes all cached parse results.
func ClearCache() { globalCache.Clear() }
