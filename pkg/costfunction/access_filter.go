package costfunction

import (
	"github.com/lintang-b-s/simpleroute/pkg"
	"github.com/lintang-b-s/simpleroute/pkg/util"
)

// AccessFilter. an edge is allowed if it shares at least one travel mode with mask.
// the empty mask is valid and allows nothing.
type AccessFilter struct {
	mask pkg.AccessType
}

func NewAccessFilter(mask pkg.AccessType) (AccessFilter, error) {
	if !mask.Valid() {
		return AccessFilter{}, util.WrapErrorf(nil, util.ErrInvalidConfiguration, "invalid access mask %d", mask)
	}
	return AccessFilter{mask: mask}, nil
}

func (af AccessFilter) IsAllowed(e EdgeAttributes) bool {
	return e.GetAccess()&af.mask != 0
}

func (af AccessFilter) GetMask() pkg.AccessType {
	return af.mask
}
