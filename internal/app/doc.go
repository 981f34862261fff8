// Package app wires application dependencies for the CLI.
//
// It loads Config (file, environment, defaults), then builds the secret
// store, the credential resolver and the HTTP client, exposing them via Wire.
// App adapts that wiring to the dispatcher's Prepare hook and hands commands
// an API client on demand.
package app
