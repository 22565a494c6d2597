// Package query is the dynamic query engine behind every listing endpoint.
//
// It turns loosely-typed client parameters (optional filters, a sort
// directive, 1-based pagination) into safe PostgreSQL predicates:
//
//   - Opt[T] distinguishes "filter absent" from "filter by zero value".
//     An absent option never reaches the predicate; a present one always
//     does, even for "" or false.
//   - Builder accumulates AND-combined conditions with positional args.
//     The same built predicate is shared by the COUNT and the page fetch,
//     so totals are always computed against the predicate the items used.
//   - ContainsFold* build case-insensitive literal substring matches with
//     all LIKE metacharacters escaped.
//   - ResolveSort maps client sort fields through a column whitelist and
//     falls back to a stable default order.
//   - Page enforces 1-based page semantics and rejects out-of-range input.
package query
