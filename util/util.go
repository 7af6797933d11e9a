package util

import (
	"golang.org/x/exp/constraints"
)

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}

// FirstOver returns the index of the first value above max, or -1.
func FirstOver[A constraints.Integer](nums []A, max A) int {
	for i, v := range nums {
		if v > max {
			return i
		}
	}
	return -1
}

func ToBytes[A constraints.Integer](nums []A) []byte {
	res := make([]byte, len(nums))
	for i, v := range nums {
		res[i] = byte(v)
	}
	return res
}

func FromBytes[A constraints.Integer](buf []byte) []A {
	res := make([]A, len(buf))
	for i, v := range buf {
		res[i] = A(v)
	}
	return res
}
