// Package source collects resume files from local paths and S3 buckets.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/cv-screener/internal/screening"
)

var ErrNoBucket = errors.New("s3 location given but no bucket client is configured")

// entry is a loaded file together with the location it came from.
type entry struct {
	origin string
	file   screening.File
}

// Loader resolves a list of references into resume files.
type Loader struct {
	// Bucket serves s3:// references. It may be nil.
	Bucket *Bucket
}

// Load resolves refs in order. A location reached twice is loaded once.
// When two different locations yield the same name, the later file is
// named by its full location instead.
func (l *Loader) Load(ctx context.Context, refs []string) ([]screening.File, error) {
	var files []screening.File
	seen := make(map[string]bool)
	names := make(map[string]bool)

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			batch []entry
			err   error
		)
		if IsURI(ref) {
			if l.Bucket == nil {
				return nil, fmt.Errorf("%s: %w", ref, ErrNoBucket)
			}
			batch, err = l.Bucket.load(ctx, ref)
		} else {
			batch, err = loadLocal(ref)
		}
		if err != nil {
			return nil, err
		}

		for _, e := range batch {
			if seen[e.origin] {
				continue
			}
			seen[e.origin] = true

			f := e.file
			if names[f.Name] {
				f.Name = e.origin
			}
			names[f.Name] = true
			files = append(files, f)
		}
	}
	return files, nil
}
