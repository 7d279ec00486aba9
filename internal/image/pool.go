package image

import "sync"

// Pool recycles ImageBuf instances across calls that repeatedly need
// scratch buffers of the same shape, such as per-frame flattening in a
// warp pipeline. Buffers are bucketed by width, height and format, and
// every buffer handed out by Get is fully zeroed.
//
// All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*ImageBuf
	maxSize int
}

// poolKey identifies one bucket of interchangeable buffers.
type poolKey struct {
	width  int
	height int
	format Format
}

// NewPool returns a pool retaining at most maxPerBucket buffers per
// shape. Zero or negative means no limit.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*ImageBuf),
		maxSize: maxPerBucket,
	}
}

// Get returns a zeroed buffer of the requested shape, reusing a pooled
// one when available. It returns nil when the shape is invalid.
func (p *Pool) Get(width, height int, format Format) *ImageBuf {
	key := poolKey{width: width, height: height, format: format}

	p.mu.Lock()
	if bucket := p.buckets[key]; len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		return buf
	}
	p.mu.Unlock()

	buf, err := NewImageBuf(width, height, format)
	if err != nil {
		return nil
	}
	return buf
}

// Put clears buf and returns it to the pool, keeping the invariant that
// pooled buffers are zeroed. Nil buffers and buffers beyond a full
// bucket are dropped. The caller must not touch buf afterwards.
func (p *Pool) Put(buf *ImageBuf) {
	if buf == nil {
		return
	}
	buf.Clear()

	key := poolKey{width: buf.width, height: buf.height, format: buf.format}
	p.mu.Lock()
	defer p.mu.Unlock()
	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// defaultPool backs the package-level Get/Put helpers.
var defaultPool = NewPool(8)

// GetFromDefault returns a zeroed buffer from the shared pool.
func GetFromDefault(width, height int, format Format) *ImageBuf {
	return defaultPool.Get(width, height, format)
}

// PutToDefault hands a buffer back to the shared pool.
func PutToDefault(buf *ImageBuf) {
	defaultPool.Put(buf)
}
