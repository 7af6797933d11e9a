package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstOver(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(-1, FirstOver([]uint16{1, 255, 0}, 255))
	assert.Equal(1, FirstOver([]uint16{1, 256, 300}, 255))
	assert.Equal(-1, FirstOver([]uint16{}, 255))
}

func TestSumAndMin(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint64(515), Sum([]uint16{255, 260}))
	assert.Equal(3, Min(3, 7))
}

func TestByteConversions(t *testing.T) {
	assert := assert.New(t)
	b := ToBytes([]uint16{56, 0, 255})
	assert.Equal([]byte{56, 0, 255}, b)
	assert.Equal([]uint16{56, 0, 255}, FromBytes[uint16](b))
}
