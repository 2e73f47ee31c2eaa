package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fillow/wap-core/config"
)

// GetTenantMediaPath returns the directory holding media blobs owned by
// tenantID, creating it if missing. Deleting the owning Tenant row does
// not remove this directory.
func GetTenantMediaPath(tenantID string) string {
	path := filepath.Join(config.PathMedia, tenantID)
	_ = os.MkdirAll(path, 0755)
	return path
}

// GetInstanceMediaPath scopes a tenant's media directory further by
// instance, so two instances under the same tenant never collide on
// filenames.
func GetInstanceMediaPath(tenantID, instanceID string) string {
	path := filepath.Join(config.PathMedia, tenantID, instanceID)
	_ = os.MkdirAll(path, 0755)
	return path
}

// EnsureTenantDirectories creates the basic directory structure needed
// before a tenant's first instance can be provisioned.
func EnsureTenantDirectories(tenantID string) error {
	path := filepath.Join(config.PathMedia, tenantID)
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}
