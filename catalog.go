package succinct

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/succinct/blobstore"
	"github.com/hupe1980/succinct/persistence"
	"github.com/hupe1980/succinct/resource"
	"golang.org/x/sync/errgroup"
)

// Suffix is appended to dictionary names to form blob names.
const Suffix = ".sds"

// Catalog stores named dictionaries in a blob store.
//
// A Catalog has no state of its own beyond the store, so several
// processes may share one. Publishing replaces a dictionary atomically
// as far as the store guarantees atomic puts.
type Catalog struct {
	store blobstore.Store
	opts  options
}

// NewCatalog creates a catalog over store. The options apply to every
// dictionary the catalog publishes or opens.
func NewCatalog(store blobstore.Store, opts ...Option) *Catalog {
	return &Catalog{store: store, opts: applyOptions(opts)}
}

func blobName(name string) (string, error) {
	if err := blobstore.ValidateName(name); err != nil {
		return "", err
	}
	return name + Suffix, nil
}

// Publish stores d under name.
func (c *Catalog) Publish(ctx context.Context, name string, d *Dictionary) error {
	key, err := blobName(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w := resource.NewRateLimitedWriter(ctx, &buf, c.opts.controller)
	n, err := persistence.WriteEnvelope(w, persistence.KindTrie, d.trie(), c.opts.writerOptions())
	if err == nil {
		err = c.store.Put(ctx, key, buf.Bytes())
	}
	c.opts.metricsCollector.RecordSave(n, 0, err)
	c.opts.logger.WithName(name).LogSave(ctx, key, n, err)
	if err != nil {
		return translateError(key, err)
	}
	return nil
}

// Open loads the named dictionary. Blobs that are already in memory,
// like local memory-mapped files, are queried in place and stay open
// until the dictionary is closed.
//
// With a resource controller, Open holds a load slot while reading and
// charges the envelope size against the memory budget until Close.
func (c *Catalog) Open(ctx context.Context, name string) (*Dictionary, error) {
	key, err := blobName(name)
	if err != nil {
		return nil, err
	}

	rc := c.opts.controller
	if err := rc.AcquireLoad(ctx); err != nil {
		return nil, err
	}
	defer rc.ReleaseLoad()

	blob, err := c.store.Open(ctx, key)
	if err != nil {
		err = translateError(key, err)
		c.opts.logger.WithName(name).LogLoad(ctx, key, 0, false, err)
		return nil, err
	}

	size := blob.Size()
	if err := rc.AcquireMemory(ctx, size); err != nil {
		_ = blob.Close()
		return nil, translateError(key, err)
	}
	release := func() { rc.ReleaseMemory(size) }

	data, err := blobstore.ReadAll(ctx, blob, func(r io.Reader) io.Reader {
		return resource.NewRateLimitedReader(ctx, r, rc)
	})
	if err != nil {
		_ = blob.Close()
		release()
		err = translateError(key, err)
		c.opts.logger.WithName(name).LogLoad(ctx, key, size, false, err)
		return nil, err
	}

	d, err := fromBytes(ctx, key, data, c.opts)
	if err != nil {
		_ = blob.Close()
		release()
		return nil, err
	}

	_, mappable := blob.(blobstore.Mappable)
	d.mapped = d.mapped && mappable
	if d.mapped {
		d.closer = blob
	} else {
		_ = blob.Close()
	}
	d.release = release
	return d, nil
}

// OpenAll opens several dictionaries concurrently. On error every
// dictionary already opened is closed again.
func (c *Catalog) OpenAll(ctx context.Context, names []string) (map[string]*Dictionary, error) {
	out := make([]*Dictionary, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(int(c.opts.controller.Config().MaxConcurrentLoads))

	for i, name := range names {
		g.Go(func() error {
			d, err := c.Open(gctx, name)
			if err != nil {
				return fmt.Errorf("open %q: %w", name, err)
			}
			out[i] = d
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, d := range out {
			if d != nil {
				_ = d.Close()
			}
		}
		return nil, err
	}

	m := make(map[string]*Dictionary, len(names))
	for i, name := range names {
		if prev, ok := m[name]; ok {
			_ = prev.Close()
		}
		m[name] = out[i]
	}
	return m, nil
}

// List returns the sorted names of dictionaries starting with prefix.
func (c *Catalog) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := c.store.List(ctx, prefix)
	if err != nil {
		return nil, translateError(prefix, err)
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if name, ok := strings.CutSuffix(k, Suffix); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// Delete removes the named dictionary. Deleting a missing dictionary is
// not an error. Dictionaries already opened stay usable.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	key, err := blobName(name)
	if err != nil {
		return err
	}
	err = c.store.Delete(ctx, key)
	c.opts.logger.LogDelete(ctx, name, err)
	if err != nil {
		return translateError(key, err)
	}
	return nil
}
