// SPDX-License-Identifier: GPL-3.0-or-later

package wampc

// Validate checks the client configuration and returns the first failure.
//
// The checks run in this order and stop at the first failure:
//
//  1. a [TransportFactory] must be resolvable from [ClientConfig.Transport]
//     or from the fallback, and [ClientConfig.URL] must be set to bind it
//     to a router, otherwise [StatusNoWSOrURL];
//
//  2. [ClientConfig.Realm] must not be empty, otherwise [StatusNoRealm];
//
//  3. the challenge-response options must pass [CheckChallengeAuth],
//     otherwise [StatusNoCRACallbackOrID].
//
// A configuration without any option is valid and yields [StatusSuccess].
//
// The fallback is the ambient default transport, usually [Config.DefaultTransport].
func Validate(client *ClientConfig, fallback TransportFactory) OpStatus {
	name, _ := validate(client, fallback)
	return MustLookupStatus(name)
}

// validate is like [Validate] but also returns the resolved factory.
func validate(client *ClientConfig, fallback TransportFactory) (StatusName, TransportFactory) {
	if client.isEmpty() {
		return StatusSuccess, nil
	}

	factory, found := ResolveTransportFactory(client.Transport, fallback)
	if !found || client.URL == "" {
		return StatusNoWSOrURL, nil
	}

	if client.Realm == "" {
		return StatusNoRealm, nil
	}

	if name := checkChallengeAuth(client); name != StatusSuccess {
		return name, nil
	}

	return StatusSuccess, factory
}
