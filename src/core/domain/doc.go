// Package domain contains the core domain model of the classified ads marketplace.
//
// This package defines:
//   - Identifiers: ClassifiedAdID, UserID (opaque uuid wrappers)
//   - Value Objects: ClassifiedAdTitle, ClassifiedAdText, Money, Price, FullName, DisplayName
//   - Events: the immutable facts raised by each aggregate
//   - Aggregates: ClassifiedAd and UserProfile, both mutated only through aggregate.Apply
//   - Domain Errors: validation, precondition, invalid state and lookup failures
//
// Rules for this package:
//   - No infrastructure concerns (database, HTTP, logging)
//   - Value objects validate at construction and are immutable afterwards
//   - Aggregates change only by raising an event; external callers never set fields
//   - Currency rules come from a CurrencyLookup, never from a hardcoded table
//
// Example:
//
//	ad := domain.NewClassifiedAd(id, owner, lookup)
//	title, err := domain.NewClassifiedAdTitle("Selling bike")
//	if err != nil {
//	    return err
//	}
//	if err := ad.SetTitle(title); err != nil {
//	    return err
//	}
//	pending := ad.Changes()
package domain
