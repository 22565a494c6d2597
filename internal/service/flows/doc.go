// Package flows implements conversation-flow management.
//
// The service layer contains the business logic for listing, creating,
// editing, and retiring flows. It depends on the repository interface
// defined in this package and should never import from api/.
//
// Repository implementations live in repository/postgres/.
package flows
