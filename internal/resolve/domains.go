package resolve

import (
	"fmt"
	"net"
	"strings"

	vverrors "github.com/opsforge/vaultvars/internal/errors"
)

// GroupsFolder is the store folder for group lookups.
const GroupsFolder = "groups"

// LookupKey identifies one secret store path: folder is a slash-joined
// segment such as "ssh/hosts", name the record within it.
type LookupKey struct {
	Folder string
	Name   string
}

// HostLookupKeys decomposes a host name into its ordered lookup sequence for
// the given connection type. Emission order is precedence order: the widest
// domain suffix first, the full host name last.
//
// Single-label names and IP address literals are never decomposed; they get
// a single hosts-folder lookup.
func HostLookupKeys(name, connection string) ([]LookupKey, error) {
	if name == "" {
		return nil, vverrors.InternalError{
			Message: "failed to extract host name parts: empty host name",
		}
	}

	hostsFolder := connection + "/hosts"

	if net.ParseIP(name) != nil {
		return []LookupKey{{Folder: hostsFolder, Name: name}}, nil
	}

	parts := strings.Split(name, ".")
	if len(parts) == 1 {
		return []LookupKey{{Folder: hostsFolder, Name: name}}, nil
	}

	domainsFolder := connection + "/domains"
	keys := make([]LookupKey, 0, len(parts))

	// Walk from the root label down, growing the suffix one label at a
	// time. Labels are joined verbatim so names with empty labels (for
	// example a trailing dot) still end with the full name under the
	// hosts folder.
	suffix := ""
	for i := len(parts) - 1; i >= 0; i-- {
		if i == len(parts)-1 {
			suffix = parts[i]
		} else {
			suffix = parts[i] + "." + suffix
		}
		folder := domainsFolder
		if suffix == name {
			folder = hostsFolder
		}
		keys = append(keys, LookupKey{Folder: folder, Name: suffix})
	}
	return keys, nil
}

// String renders the key as its cache form, folder/name.
func (k LookupKey) String() string {
	return fmt.Sprintf("%s/%s", k.Folder, k.Name)
}
