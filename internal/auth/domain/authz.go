package domain

// AuthorizeOwner checks that the authenticated principal owns the resource.
// A mismatch is ErrForbidden: the caller has an identity, just not the right
// one. Callers with no identity at all never get this far.
func AuthorizeOwner(principalUserID, resourceOwnerID string) error {
	if principalUserID == "" || principalUserID != resourceOwnerID {
		return ErrForbidden
	}
	return nil
}
