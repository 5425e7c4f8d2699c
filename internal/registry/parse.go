package registry

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"tmm/internal/domain"
)

// DependencyRef is a parsed Owner-Name-Version dependency string.
type DependencyRef struct {
	Owner   string
	Name    string
	Version string
}

// ParseDependencyString parses a dependency identifier of the form
// "Owner-Name-1.2.3". Owners may contain dashes; names and version numbers
// may not, so the final two dashes delimit the three segments. A string
// that does not fit the shape is a malformed-input error, distinct from a
// failed lookup.
func ParseDependencyString(s string) (DependencyRef, error) {
	parts := strings.Split(s, "-")
	if len(parts) < 3 {
		return DependencyRef{}, fmt.Errorf("%w: %q", domain.ErrMalformedDependency, s)
	}

	ref := DependencyRef{
		Owner:   strings.Join(parts[:len(parts)-2], "-"),
		Name:    parts[len(parts)-2],
		Version: parts[len(parts)-1],
	}
	if ref.Owner == "" || ref.Name == "" {
		return DependencyRef{}, fmt.Errorf("%w: %q", domain.ErrMalformedDependency, s)
	}
	if _, err := semver.NewVersion(ref.Version); err != nil {
		return DependencyRef{}, fmt.Errorf("%w: %q: bad version %q", domain.ErrMalformedDependency, s, ref.Version)
	}

	return ref, nil
}

func semverParse(raw string) (*semver.Version, error) {
	return semver.NewVersion(raw)
}
