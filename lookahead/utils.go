package lookahead

import (
	"github.com/chewxy/math32"
)

// argmax keeps the first maximum. An all -Inf slice yields 0.
func argmax(a []float32) int {
	var retVal int
	var max = math32.Inf(-1)
	for i := range a {
		if a[i] > max {
			max = a[i]
			retVal = i
		}
	}
	return retVal
}
