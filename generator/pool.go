package generator

import (
	"bytes"
	"sync"
)

// Template buffers come from one of three pools, picked by the number of
// definitions in the document being generated.
const (
	smallBufferSize  = 8 * 1024
	mediumBufferSize = 32 * 1024
	largeBufferSize  = 64 * 1024

	mediumDocument = 10 // definitions from which the medium pool is used
	largeDocument  = 50 // definitions from which the large pool is used

	// maxPooledBuffer caps what goes back into a pool; one huge models file
	// must not pin its buffer for the life of the process.
	maxPooledBuffer = 1 << 20
)

func newBufferPool(size int) *sync.Pool {
	return &sync.Pool{
		New: func() any {
			return bytes.NewBuffer(make([]byte, 0, size))
		},
	}
}

var (
	smallBufferPool  = newBufferPool(smallBufferSize)
	mediumBufferPool = newBufferPool(mediumBufferSize)
	largeBufferPool  = newBufferPool(largeBufferSize)
)

func bufferPool(definitions int) *sync.Pool {
	switch {
	case definitions < mediumDocument:
		return smallBufferPool
	case definitions < largeDocument:
		return mediumBufferPool
	default:
		return largeBufferPool
	}
}

// getTemplateBuffer returns an empty buffer sized for the definition count.
func getTemplateBuffer(definitions int) *bytes.Buffer {
	buf := bufferPool(definitions).Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putTemplateBuffer returns a buffer to its pool unless it grew too large.
func putTemplateBuffer(buf *bytes.Buffer, definitions int) {
	if !poolable(buf) {
		return
	}
	bufferPool(definitions).Put(buf)
}

func poolable(buf *bytes.Buffer) bool {
	return buf != nil && buf.Cap() <= maxPooledBuffer
}
