package file

import (
	"os"
	"sync"
)

// Pool recycles ConcurrentWriter shells and their write buffers across log
// files. Free is the arena release path for writers obtained from Get.
type Pool struct {
	p sync.Pool
}

func NewPool() *Pool {
	return &Pool{
		p: sync.Pool{
			New: func() interface{} {
				return &ConcurrentWriter{}
			},
		},
	}
}

// Get returns a writer appending to f.
func (p *Pool) Get(f *os.File) *ConcurrentWriter {
	w := p.p.Get().(*ConcurrentWriter)
	w.reset(f)
	return w
}

// Free closes w and hands it back to the pool. w must not be used afterwards.
func (p *Pool) Free(w *ConcurrentWriter) error {
	err := w.Close()
	w.mu.Lock()
	w.f = nil
	w.buf.Reset(nil)
	w.mu.Unlock()
	p.p.Put(w)
	return err
}
