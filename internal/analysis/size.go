package analysis

import (
	"os"

	"github.com/dustin/go-humanize"

	"github.com/sprite-ai/staticreview/internal/review"
)

// LargeFileRule warns when a file is bigger than the configured limit.
type LargeFileRule struct {
	opts Options
}

func (LargeFileRule) Name() string { return "large-file" }

func (r LargeFileRule) Description() string {
	return "warns about files larger than " + humanize.IBytes(uint64(r.limit()))
}

func (r LargeFileRule) limit() int64 {
	if r.opts.MaxFileSize <= 0 {
		return DefaultMaxFileSize
	}
	return r.opts.MaxFileSize
}

func (r LargeFileRule) CanReview(item review.Reviewable) bool {
	_, ok := reviewableFile(item)
	return ok
}

func (r LargeFileRule) Review(rep *review.Reporter, item review.Reviewable) error {
	f, _ := reviewableFile(item)
	info, err := os.Stat(f.FullPath())
	if err != nil {
		return err
	}
	if info.Size() <= r.limit() {
		return nil
	}
	return rep.Warning(r.Name(), f, 0, "file is %s, over the %s limit",
		humanize.IBytes(uint64(info.Size())), humanize.IBytes(uint64(r.limit())))
}
