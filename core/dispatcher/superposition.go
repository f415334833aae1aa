package dispatcher

import "github.com/cogpy/hypersynth/core/vsa"

// SuperpositionPayload carries the candidate hypervectors a superposition
// problem asks the dispatcher to combine.
type SuperpositionPayload struct {
	Vectors []*vsa.HyperVec
}

func bundleVectors(vs []*vsa.HyperVec) (*vsa.HyperVec, error) {
	return vsa.Bundle(vs)
}
