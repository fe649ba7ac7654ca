package dispatch

import (
	"github.com/gogpu/dwgdraw"
)

// KernelHandles owns solid kernel bodies collected while drawing and
// releases each of them exactly once.
type KernelHandles struct {
	handles []dwgdraw.KernelHandle
	closed  bool
}

// Add takes ownership of h. A handle added after Close is released
// immediately.
func (k *KernelHandles) Add(h dwgdraw.KernelHandle) {
	if h == nil {
		return
	}
	if k.closed {
		h.Release()
		return
	}
	k.handles = append(k.handles, h)
}

// Len returns the number of handles held.
func (k *KernelHandles) Len() int { return len(k.handles) }

// Close releases every held handle. Later calls do nothing.
func (k *KernelHandles) Close() {
	if k.closed {
		return
	}
	k.closed = true
	for _, h := range k.handles {
		h.Release()
	}
	k.handles = nil
}
