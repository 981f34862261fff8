// Package credential decides which SimpleMDM API key a run uses.
//
// Precedence, first match wins:
//
//  1. a key installed from --key,
//  2. a key saved in the secret store,
//  3. a key typed at the terminal (stdin and stderr must both be TTYs),
//     optionally saved back to the store.
//
// The result is cached on the Resolver for the rest of the process.
package credential
