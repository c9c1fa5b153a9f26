// Package entity defines the domain records and errors used across the
// application: the URLRecord mapping a short code to its original URL, the
// Owner reference attached to authenticated creations, and the sentinel
// errors the storage and delivery layers translate at their boundaries.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrShortCodeExists is returned when attempting to persist a record with a short code that already exists.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrURLNotFound is returned when a record with the specified short code or id cannot be found.
	ErrURLNotFound = errors.New("url not found")
	// ErrURLExpired is returned when a record exists but its expiry date has passed.
	ErrURLExpired = errors.New("url expired")
	// ErrPermissionDenied is returned when an owner attempts an operation on a record they do not own.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidURL is returned when the submitted original URL is not a valid absolute URL.
	ErrInvalidURL = errors.New("invalid original url")
	// ErrInvalidExpiry is returned when the submitted expiry date is not in the future.
	ErrInvalidExpiry = errors.New("expiry date must be in the future")
)

// Owner identifies who created a record. The zero value is anonymous, so an
// ownership check against a freshly constructed Owner can never accidentally
// match a stored record.
type Owner struct {
	userID int64
	known  bool
}

// OwnedBy returns an Owner referencing the given user id.
func OwnedBy(userID int64) Owner {
	return Owner{userID: userID, known: true}
}

// Anonymous returns the owner of records created without an authenticated identity.
func Anonymous() Owner {
	return Owner{}
}

// UserID reports the referenced user id and whether one is present.
func (o Owner) UserID() (int64, bool) {
	return o.userID, o.known
}

// IsAnonymous reports whether the owner carries no user reference.
func (o Owner) IsAnonymous() bool {
	return !o.known
}

// URLRecord represents a shortened URL.
type URLRecord struct {
	ID          int64      // ID is the unique identifier of the record in the database.
	Owner       Owner      // Owner references the user who created the record, if any.
	ShortCode   string     // ShortCode is the generated code the short URL resolves through.
	OriginalURL string     // OriginalURL is the full URL that the short code redirects to.
	Clicks      int64      // Clicks counts successful redirects through the short code.
	CreatedAt   time.Time  // CreatedAt is set once when the record is persisted.
	ExpiryDate  *time.Time // ExpiryDate, when set, marks the moment the record stops resolving.
}

// ExpiredAt reports whether the record's expiry date has passed at the given moment.
func (u *URLRecord) ExpiredAt(t time.Time) bool {
	return u.ExpiryDate != nil && !u.ExpiryDate.After(t)
}
