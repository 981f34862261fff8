// Package domain defines the SimpleMDM resource models and the contracts
// shared between the CLI core, the secret stores and the API client.
// It contains plain types and interfaces only.
package domain
