package server

// tokenValid is the single authorization predicate for viewer connections
// and publish calls.
//
// An empty expected token means the operator opted out of auth and every
// request is authorized. Otherwise the provided token must match exactly;
// an absent token arrives here as the empty string and never matches a
// configured one. Plain equality suffices: the token is a local-loopback
// capability, not a cross-trust-boundary secret.
func tokenValid(expected, provided string) bool {
	if expected == "" {
		return true
	}
	return provided == expected
}
