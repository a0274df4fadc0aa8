package signing

// Candidate is one entry in an ordered lookup.
type Candidate struct {
	Key    string
	Lookup LookupFunc
	Origin Origin
}

// Env builds a Candidate that reads key from an environment lookup.
func Env(lookup LookupFunc, key string) Candidate {
	return Candidate{Key: key, Lookup: lookup, Origin: OriginEnvironment}
}

// Fallback evaluates candidates left to right and returns the first value
// present. A value that is present but empty still wins. When no candidate
// matches, def is returned with OriginDefault.
func Fallback(def string, candidates ...Candidate) (string, Origin) {
	for _, c := range candidates {
		if c.Lookup == nil {
			continue
		}
		if v, ok := c.Lookup(c.Key); ok {
			return v, c.Origin
		}
	}
	return def, OriginDefault
}
