package random_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zaz600/go-musthave-shortener-client/internal/pkg/random"
)

func TestString(t *testing.T) {
	assert.Empty(t, random.String(-1))
	assert.Empty(t, random.String(0))
	assert.Len(t, random.String(1), 1)
	assert.Len(t, random.String(10), 10)

	assert.NotEqual(t, random.String(10), random.String(10))
}

func TestToken(t *testing.T) {
	assert.Len(t, random.Token(), 32)
}

func BenchmarkString(b *testing.B) {
	for i := 0; i < b.N; i++ {
		random.String(10)
	}
}

func ExampleString() {
	fmt.Println(len(random.String(6)))
	// Output: 6
}
