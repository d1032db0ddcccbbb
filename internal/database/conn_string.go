package database

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/NatanRincker/ctrl-invest-pricer/internal/config"
)

// BuildConnString builds a PostgreSQL connection string from config.
//
// When CA certificate material is configured it is written to a temp file and
// the connection verifies the server against it (sslmode=verify-full). With
// no CA material the connection runs without certificate verification, which
// is this deployment's default rather than an accident.
func BuildConnString(cfg config.DBConfig) (string, error) {
	// URL-encode password to handle special characters
	escapedPassword := url.QueryEscape(cfg.Password)

	sslParams := "sslmode=disable"
	if cfg.CACert != "" {
		caPath, err := WriteCACert(cfg.CACert)
		if err != nil {
			return "", fmt.Errorf("write ca cert: %w", err)
		}
		sslParams = "sslmode=verify-full&sslrootcert=" + url.QueryEscape(caPath)
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?%s",
		cfg.User,
		escapedPassword,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		sslParams,
	), nil
}

// WriteCACert materializes PEM certificate material at a stable temp path and
// returns that path. The file is rewritten only when the content hash differs,
// through an atomic rename, so concurrent readers never see a half-written
// certificate.
func WriteCACert(pem string) (string, error) {
	caPath := filepath.Join(os.TempDir(), "pg-ca.pem")

	newHash := hashString(pem)
	if existing, err := os.ReadFile(caPath); err == nil {
		if hashString(string(existing)) == newHash {
			return caPath, nil
		}
	}

	tmpPath := caPath + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(pem), 0o600); err != nil {
		return "", fmt.Errorf("write temp cert: %w", err)
	}
	if err := os.Rename(tmpPath, caPath); err != nil {
		return "", fmt.Errorf("replace cert: %w", err)
	}

	return caPath, nil
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
