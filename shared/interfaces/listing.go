package interfaces

import "context"

// ListingInvalidator drops cached listing pages after a mutation.
// Implementations must not fail the caller; cache errors are logged and swallowed.
type ListingInvalidator interface {
	InvalidateListings(ctx context.Context)
}
