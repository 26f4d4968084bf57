// Package transport initializes the secure socket layer used by the
// messaging client.
//
// It loads the device's TLS credential material (root CA, client
// certificate, private key) into a tls.Config. The resulting Transport
// handle is the "network interface reference" the OTA agent's network
// parameters are bound to - it must exist before the agent starts, and
// never changes afterwards.
package transport
