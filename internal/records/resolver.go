package records

import (
	"github.com/Iron-Ham/scanform/internal/errors"
)

// DefaultPrefixLen is the number of leading characters compared by the
// fallback pass when none is configured.
const DefaultPrefixLen = 7

// Resolver finds the displayed record a barcode designates.
type Resolver struct {
	// Attribute is the record key compared against the barcode.
	Attribute string
	// PrefixLen is the length of the leading part compared by the
	// fallback pass. Zero or negative disables the fallback.
	PrefixLen int
}

// NewResolver creates a Resolver matching on attribute.
func NewResolver(attribute string, prefixLen int) Resolver {
	return Resolver{Attribute: attribute, PrefixLen: prefixLen}
}

// Resolve returns the first view whose attribute equals target. Failing
// that, it returns the first view whose non-empty attribute shares its
// leading PrefixLen characters with target. Returns a *errors.NotFoundError
// matching errors.ErrRecordNotFound when nothing qualifies.
func (r Resolver) Resolve(views []View, target string) (View, error) {
	if target == "" {
		return nil, errors.NewNotFoundError("record", target)
	}

	for _, v := range views {
		if v.Get(r.Attribute) == target {
			return v, nil
		}
	}

	if r.PrefixLen > 0 {
		want := head(target, r.PrefixLen)
		for _, v := range views {
			attr := v.Get(r.Attribute)
			if attr == "" {
				continue
			}
			if head(attr, r.PrefixLen) == want {
				return v, nil
			}
		}
	}

	return nil, errors.NewNotFoundError("record", target)
}

// head returns the first n runes of s, or s when it is shorter.
func head(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
