package rng

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceWrapsAndReduces(t *testing.T) {
	s := NewSequence(3, 12, -4)
	assert.Equal(t, 3, s.Intn(10))
	assert.Equal(t, 2, s.Intn(10))
	assert.Equal(t, 4, s.Intn(10))
	assert.Equal(t, 3, s.Intn(10))
}

func TestEmptySequenceYieldsZero(t *testing.T) {
	s := NewSequence()
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0, s.Intn(5))
	}
}

func TestSequencePanicsOnInvalidBound(t *testing.T) {
	assert.Panics(t, func() { NewSequence(1).Intn(0) })
}

func TestSeededSourceIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
	}
}

func TestSourceConcurrentUse(t *testing.T) {
	src := NewTimeSeeded()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v := src.Intn(10)
				if v < 0 || v >= 10 {
					t.Errorf("value out of range: %d", v)
				}
			}
		}()
	}
	wg.Wait()
}
