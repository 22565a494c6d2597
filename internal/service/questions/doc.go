// Package questions implements FAQ question management: paginated search
// over localized question text, topics, and the answer flows behind them.
package questions
