package combin

import "gonum.org/v1/gonum/stat/combin"

// ShapleyWeight returns the Shapley-value weight for a coalition of size
// sSize and a sub-coalition (the "T" in the Shapley sum) of size tSize:
//
//	|T|! (|S|-|T|-1)! / |S|!  =  1 / ( C(|S|-1, |T|) * |S| )
//
// Expressed via the binomial coefficient rather than raw factorials to
// avoid overflow for the (still tiny, by design) player counts this
// core is built for.
func ShapleyWeight(sSize, tSize int) float64 {
	if sSize <= 0 {
		return 0
	}
	return 1.0 / (float64(combin.Binomial(sSize-1, tSize)) * float64(sSize))
}

// BanzhafWeight returns the plain Banzhaf weight 1/2^(|S|-1), constant
// across T.
func BanzhafWeight(sSize int) float64 {
	if sSize <= 0 {
		return 0
	}
	return 1.0 / float64(int(1)<<uint(sSize-1))
}
