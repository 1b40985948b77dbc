package docvault

import (
	"fmt"
	"sync"
)

var (
	vaultClient *Client
	vaultConfig *Config
	vaultMu     sync.Mutex
)

// GetVault returns the shared document vault client, initializing it on
// first use. Returns an error when the vault is disabled or misconfigured.
func GetVault() (*Client, error) {
	vaultMu.Lock()
	defer vaultMu.Unlock()

	if vaultClient != nil {
		return vaultClient, nil
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load vault config: %w", err)
	}
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("document vault is disabled")
	}

	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	vaultClient = client
	vaultConfig = cfg
	return vaultClient, nil
}

// GetVaultConfig returns the configuration of the initialized vault client.
// It initializes the vault if that has not happened yet.
func GetVaultConfig() (*Config, error) {
	if _, err := GetVault(); err != nil {
		return nil, err
	}
	return vaultConfig, nil
}

// IsVaultEnabled reports whether the document vault is switched on via
// configuration, without establishing a connection.
func IsVaultEnabled() bool {
	cfg, err := LoadConfig()
	if err != nil {
		return false
	}
	return cfg.IsEnabled()
}

// ResetVault drops the cached client so the next GetVault call
// re-initializes it. Used after configuration changes.
func ResetVault() {
	vaultMu.Lock()
	defer vaultMu.Unlock()
	vaultClient = nil
	vaultConfig = nil
}
