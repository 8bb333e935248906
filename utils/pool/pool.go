// Package pool provides a wrapper around sync.Pool with added metrics.
package pool

import (
	"sync"

	"github.com/linchenxuan/voxnet/metrics"
)

// Pool is a wrapper around sync.Pool that counts object creation, making it
// visible when a pool is sized wrong for its workload.
type Pool struct {
	Name string     // metric dimension identifying the pool
	Pool *sync.Pool // the underlying sync.Pool
}

// NewPool creates a new instrumented pool. newFunc is called whenever the
// pool is empty; each call increments the creation counter under the pool's
// name.
func NewPool(name string, newFunc func() any) *Pool {
	p := &Pool{Name: name}
	p.Pool = &sync.Pool{
		New: func() any {
			metrics.IncrCounterWithDimGroup(metrics.NamePoolCreateTotal, metrics.GroupVoxnet, 1, metrics.Dimension{
				metrics.DimPoolName: name,
			})
			return newFunc()
		},
	}
	return p
}

// Put adds x back to the pool for reuse.
func (p *Pool) Put(x any) {
	p.Pool.Put(x)
}

// Get retrieves an item from the pool, creating one when it is empty.
func (p *Pool) Get() any {
	return p.Pool.Get()
}
