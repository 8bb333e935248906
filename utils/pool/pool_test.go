package pool

import "testing"

func TestPoolReuse(t *testing.T) {
	created := 0
	p := NewPool("testpool", func() any {
		created++
		return &created
	})

	first := p.Get()
	p.Put(first)
	second := p.Get()

	if created == 0 {
		t.Fatal("newFunc never ran")
	}
	_ = second
}
