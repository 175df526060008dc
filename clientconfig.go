// SPDX-License-Identifier: GPL-3.0-or-later

package wampc

// ClientConfig is the caller-supplied description of a WAMP client.
//
// No field is required. A zero ClientConfig is valid and describes an
// inert client that never attempts to reach a router.
type ClientConfig struct {
	// URL is the router URL (e.g., "ws://127.0.0.1:8080/ws").
	URL string

	// Transport overrides [Config.DefaultTransport] when not nil.
	Transport TransportFactory

	// Realm is the realm to join and must not be empty.
	Realm string

	// AuthID is the authentication identity.
	//
	// Together with AuthMethods and OnChallenge it forms the
	// challenge-response triple that is either complete or absent.
	AuthID string

	// AuthMethods lists the authentication methods (e.g., "wampcra").
	AuthMethods []string

	// OnChallenge computes the response to a router CHALLENGE.
	OnChallenge ChallengeFunc

	// Serializer is the message serializer.
	//
	// When nil, [DefaultSerializer] is used.
	Serializer Serializer
}

// isEmpty returns whether no option at all has been set.
func (c *ClientConfig) isEmpty() bool {
	return c == nil || (c.URL == "" &&
		c.Transport == nil &&
		c.Realm == "" &&
		c.AuthID == "" &&
		len(c.AuthMethods) <= 0 &&
		c.OnChallenge == nil &&
		c.Serializer == nil)
}

// serializer returns the configured or the default [Serializer].
func (c *ClientConfig) serializer() Serializer {
	if c == nil || c.Serializer == nil {
		return DefaultSerializer()
	}
	return c.Serializer
}
