package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2/google"
)

// serviceAccountKey holds the fields of a JSON key checked before use.
type serviceAccountKey struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// ValidateServiceAccountKey checks that key is a service account key and,
// when account is set, that it belongs to that account.
func ValidateServiceAccountKey(key []byte, account string) error {
	var k serviceAccountKey
	if err := json.Unmarshal(key, &k); err != nil {
		return fmt.Errorf("parse service account key: %w", err)
	}
	if k.Type != "service_account" {
		return fmt.Errorf("key type %q is not service_account", k.Type)
	}
	if k.ClientEmail == "" || k.PrivateKey == "" {
		return errors.New("service account key is missing client_email or private_key")
	}
	if account != "" && k.ClientEmail != account {
		return fmt.Errorf("key belongs to %q, expected %q", k.ClientEmail, account)
	}
	return nil
}

// Earth Engine OAuth scopes.
const (
	earthEngineScope   = "https://www.googleapis.com/auth/earthengine"
	cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
)

// InitEarthEngine returns an HTTP client authorized for Earth Engine. It
// signs with the service account key when one is given and falls back to
// application default credentials otherwise.
func InitEarthEngine(ctx context.Context, key []byte, account string) (*http.Client, error) {
	if len(key) == 0 {
		client, err := google.DefaultClient(ctx, earthEngineScope, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("earth engine default credentials: %w", err)
		}
		return client, nil
	}
	if err := ValidateServiceAccountKey(key, account); err != nil {
		return nil, err
	}
	jwt, err := google.JWTConfigFromJSON(key, earthEngineScope, cloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("earth engine credentials: %w", err)
	}
	return jwt.Client(ctx), nil
}
