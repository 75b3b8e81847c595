package mediahost

import (
	"io"

	"shopkeep/internal/domain/service"
)

// progressReader reports floor(loaded/total*100) as the request body is
// consumed, capped at 99: the final 100 is only reported once the host has
// confirmed success. Reported values never decrease.
type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	last       int
	onProgress service.UploadProgressFunc
}

func newProgressReader(r io.Reader, total int64, onProgress service.UploadProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, onProgress: onProgress}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.report()
	}
	return n, err
}

func (p *progressReader) report() {
	if p.onProgress == nil || p.total <= 0 {
		return
	}
	percent := int(p.read * 100 / p.total)
	if percent > 99 {
		percent = 99
	}
	if percent > p.last {
		p.last = percent
		p.onProgress(percent)
	}
}
