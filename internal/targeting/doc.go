// Package targeting computes broadcast recipient sets from tag selectors.
//
// A selector names include tags (combined by union or intersection), exclude
// tags (always subtracted last), and a send-to-all switch. Resolution is pure
// set algebra over the tag index: deterministic, side-effect free, and
// tolerant of unknown tags (an unknown tag simply contributes the empty set).
//
// Two policies are load-bearing and covered by tests:
//   - an empty include list without send-to-all resolves to the empty set,
//     never to "everyone" (an empty intersection is defined as empty here);
//   - an empty result is a valid outcome, not an error.
package targeting
