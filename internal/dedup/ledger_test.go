package dedup

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdmitOnce(t *testing.T) {
	l := NewLedger()

	assert.True(t, l.Admit("CA1"))
	assert.False(t, l.Admit("CA1"))
	assert.True(t, l.Admit("CA2"))
	assert.True(t, l.Contains("CA1"))
	assert.False(t, l.Contains("CA3"))
	assert.Equal(t, 2, l.Len())
}

func TestAdmitRejectsEmptyID(t *testing.T) {
	l := NewLedger()
	assert.False(t, l.Admit(""))
	assert.Equal(t, 0, l.Len())
}

func TestAdmitConcurrent(t *testing.T) {
	l := NewLedger()
	var admitted int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Admit("same-call") {
				atomic.AddInt32(&admitted, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), admitted)
}

func TestFreshLedgersAreIndependent(t *testing.T) {
	a, b := NewLedger(), NewLedger()
	assert.True(t, a.Admit("x"))
	assert.True(t, b.Admit("x"))
}
