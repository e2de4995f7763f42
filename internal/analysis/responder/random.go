package responder

import (
	"math/rand/v2"
	"sync"
)

// Picker 为模板池提供均匀随机下标，必须能被并发调用。
type Picker interface {
	IntN(n int) int
}

// NewSeededPicker 返回一个固定种子的 Picker，便于测试和问题复现。
func NewSeededPicker(seed uint64) Picker {
	return &lockedPicker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type lockedPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (p *lockedPicker) IntN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}

// globalPicker 使用 math/rand/v2 的全局源，本身即为并发安全。
type globalPicker struct{}

func (globalPicker) IntN(n int) int {
	return rand.IntN(n)
}
