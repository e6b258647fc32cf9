// Package tradebook replays a chronological trade log against a set of
// opening holdings to reconstruct a stock portfolio at any date.
//
// The replay is a strict left-fold over the date-sorted log: buys and
// grants grow a position's quantity and cost basis, sells shrink both,
// clamped to what is actually held. On top of the aggregate book the
// package matches individual acquisition lots against disposals in
// first-in-first-out order per account, values everything against a
// sparse daily price series with bounded gap-filling, and produces the
// daily performance series, per-symbol summaries, tax-loss-harvesting
// candidates and price alerts consumed by the tbk command.
package tradebook
