package interfaces

// SecretStore reads and writes one named secret in a platform credential
// store. Get returns an error matching secret.ErrNotFound when nothing is
// saved under (service, account).
type SecretStore interface {
	Get(service, account string) (string, error)
	Set(service, account, secret string) error
}
