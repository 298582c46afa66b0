// floatsunrolled is inspired by the SIMD blog post
// https://github.com/camdencheek/simd_blog/blob/main/main.go
//
// Every kernel processes UnrollBatch elements per loop and finishes the remainder one at a time.
// All kernels are element-wise so results do not depend on the unrolling.
package floatsunrolled

import (
	"errors"
)

const UnrollBatch = 4

var (
	ErrSliceLengthMismatch       = errors.New("slices must have equal lengths")
	ErrOutputSliceLengthMismatch = errors.New("output slice length not the same as input")
)

func outputSlice(dst []float64, n int) []float64 {
	if dst == nil {
		return make([]float64, n)
	}
	if len(dst) != n {
		panic(ErrOutputSliceLengthMismatch)
	}
	return dst
}

// AffineTo stores m*s[i]+b in dst and returns dst. A nil dst is allocated.
func AffineTo(dst []float64, m, b float64, s []float64) []float64 {
	dst = outputSlice(dst, len(s))

	n := len(s) - len(s)%UnrollBatch
	for i := 0; i < n; i += UnrollBatch {
		dstTmp := dst[i : i+UnrollBatch : i+UnrollBatch]
		sTmp := s[i : i+UnrollBatch : i+UnrollBatch]
		dstTmp[0] = m*sTmp[0] + b
		dstTmp[1] = m*sTmp[1] + b
		dstTmp[2] = m*sTmp[2] + b
		dstTmp[3] = m*sTmp[3] + b
	}
	for i := n; i < len(s); i++ {
		dst[i] = m*s[i] + b
	}
	return dst
}

// SubTo stores s[i]-t[i] in dst and returns dst. A nil dst is allocated.
func SubTo(dst, s, t []float64) []float64 {
	if len(s) != len(t) {
		panic(ErrSliceLengthMismatch)
	}
	dst = outputSlice(dst, len(s))

	n := len(s) - len(s)%UnrollBatch
	for i := 0; i < n; i += UnrollBatch {
		dstTmp := dst[i : i+UnrollBatch : i+UnrollBatch]
		sTmp := s[i : i+UnrollBatch : i+UnrollBatch]
		tTmp := t[i : i+UnrollBatch : i+UnrollBatch]
		dstTmp[0] = sTmp[0] - tTmp[0]
		dstTmp[1] = sTmp[1] - tTmp[1]
		dstTmp[2] = sTmp[2] - tTmp[2]
		dstTmp[3] = sTmp[3] - tTmp[3]
	}
	for i := n; i < len(s); i++ {
		dst[i] = s[i] - t[i]
	}
	return dst
}
