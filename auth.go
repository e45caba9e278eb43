package weivault

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// AuthRegistry tracks the owner of a vault instance and the revocable set of
// authorized accounts. The owner is fixed at construction and can never be
// reassigned or removed; membership in the authorized set is a separate,
// revocable grant.
type AuthRegistry struct {
	owner      common.Address
	authorized map[common.Address]bool
}

// newAuthRegistry creates a registry with the given owner and an empty
// authorized set.
func newAuthRegistry(owner common.Address) *AuthRegistry {
	return &AuthRegistry{
		owner:      owner,
		authorized: make(map[common.Address]bool),
	}
}

// Owner returns the owner account.
func (r *AuthRegistry) Owner() common.Address {
	return r.owner
}

// IsOwner returns true if caller is the owner.
func (r *AuthRegistry) IsOwner(caller common.Address) bool {
	return caller == r.owner
}

// IsAuthorized returns true if caller is the owner or holds a grant.
func (r *AuthRegistry) IsAuthorized(caller common.Address) bool {
	return caller == r.owner || r.authorized[caller]
}

// Grant inserts target into the authorized set. Only the owner may grant;
// any other caller fails with ErrUnauthorized. Granting an existing member
// is a no-op.
func (r *AuthRegistry) Grant(caller, target common.Address) error {
	if !r.IsOwner(caller) {
		return &GuardError{Op: OpGrant, Guard: "owner", Err: ErrUnauthorized}
	}
	r.authorized[target] = true
	return nil
}

// Revoke removes target from the authorized set. Only the owner may revoke;
// any other caller fails with ErrUnauthorized. Revoking a non-member is a
// no-op, not an error. The owner's implicit authorization is not a set
// membership and cannot be revoked.
func (r *AuthRegistry) Revoke(caller, target common.Address) error {
	if !r.IsOwner(caller) {
		return &GuardError{Op: OpRevoke, Guard: "owner", Err: ErrUnauthorized}
	}
	delete(r.authorized, target)
	return nil
}

// Granted returns the authorized set (excluding the owner's implicit tier)
// in deterministic address order.
func (r *AuthRegistry) Granted() []common.Address {
	members := make([]common.Address, 0, len(r.authorized))
	for a := range r.authorized {
		members = append(members, a)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].Cmp(members[j]) < 0
	})
	return members
}
