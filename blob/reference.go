// Package blob exchanges tables with Azure Blob Storage as CSV blobs and
// builds the blob references that batch job requests carry.
package blob

import (
	"fmt"
	"strings"
	"time"
)

// Reference locates one CSV blob for a batch job request or response. The
// field names and casing follow the service contract.
type Reference struct {
	ConnectionString string `json:"ConnectionString"`
	RelativeLocation string `json:"RelativeLocation"`
}

// ConnectionString assembles a storage account connection string from an
// account name and key.
func ConnectionString(accountName, accountKey string) string {
	return fmt.Sprintf("DefaultEndpointsProtocol=https;AccountName=%s;AccountKey=%s", accountName, accountKey)
}

// NewReference builds the reference and the in-container blob name for one
// named input or output. The stored name is pathPrefix + namePrefix + name
// with a single ".csv" extension; an existing ".csv" suffix is not doubled.
func NewReference(connectionString, container, name, pathPrefix, namePrefix string) (Reference, string, error) {
	if strings.Contains(namePrefix, "/") {
		return Reference{}, "", &InvalidNamePrefixError{NamePrefix: namePrefix}
	}
	base := name
	if n := len(base); n >= 4 && strings.EqualFold(base[n-4:], ".csv") {
		base = base[:n-4]
	}
	prefix := pathPrefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	blobName := prefix + namePrefix + base + ".csv"
	ref := Reference{
		ConnectionString: connectionString,
		RelativeLocation: container + "/" + blobName,
	}
	return ref, blobName, nil
}

// NewReferences builds a reference per name, keyed by name.
func NewReferences(connectionString, container string, names []string, pathPrefix, namePrefix string) (map[string]Reference, error) {
	refs := make(map[string]Reference, len(names))
	for _, name := range names {
		ref, _, err := NewReference(connectionString, container, name, pathPrefix, namePrefix)
		if err != nil {
			return nil, err
		}
		refs[name] = ref
	}
	return refs, nil
}

// BatchPrefix derives the per-submission blob name prefix from a timestamp,
// with microsecond resolution so concurrent submissions do not collide.
func BatchPrefix(now time.Time) string {
	return fmt.Sprintf("%s_%06d", now.Format("2006-01-02_150405"), now.Nanosecond()/1000)
}
