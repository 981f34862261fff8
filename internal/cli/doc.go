// Package cli holds the command registry and the dispatcher that turns an
// argument vector into one command run.
//
// Commands are described by value (Descriptor) and registered explicitly at
// startup. Registration validates each descriptor immediately, so a bad or
// duplicate command fails before any argument is parsed.
//
// The dispatcher owns the global flags (--key, --prompt-for-key, --version)
// and hands each handler an Invocation carrying its arguments and a
// credential provider it can call when it needs the API key.
package cli
