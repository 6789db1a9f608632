// Package domain defines the core business entities of the book exchange:
// users, books, reviews, and the deals negotiated between users. Entities
// reference each other by identifier only; callers resolve relations through
// explicit store lookups.
package domain
