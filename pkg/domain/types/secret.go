package types

// InstallationToken is a short-lived bearer credential scoped to one App installation.
// The type is redacted when logged.
type InstallationToken string

// PrivateKey holds the PEM encoded private key of the GitHub App.
// The type is redacted when logged.
type PrivateKey []byte
