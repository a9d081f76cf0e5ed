// Package confess provides a deterministic state machine for a payment-gated,
// anonymous confession platform.
//
// Confess is designed as a library, not a service. Import it into your Go
// application and drive it from whatever transport you already run. It
// provides:
//
//   - Paid, time-accumulating memberships settled through a fungible token
//   - Confessions and comments addressed only by a Keccak-256 content commitment
//   - Exclusive per-actor reactions with live per-type counts
//   - Community reports resolved by a threshold vote that can hide content
//   - Running platform statistics updated in the same step as each mutation
//   - An ordered operation journal that rebuilds state by replay
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/confess"
//	    "github.com/xraph/confess/journal/pebble"
//	    "github.com/xraph/confess/store/memory"
//	)
//
//	j, err := pebble.Open("/var/lib/confess/journal")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	eng, err := confess.New(memory.New(), token, owner, treasury,
//	    confess.WithJournal(j),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start replays the journal before accepting commands.
//	if err := eng.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Stop()
//
// # Core Concepts
//
// Members buy access through the payment token. Renewing while still active
// extends the current expiration instead of resetting it:
//
//	member, err := eng.PurchaseAccess(ctx, payer)
//
// Content is posted as a commitment to its plaintext. The caller keeps the
// plaintext and declares its byte length:
//
//	text := "I never read the terms of service"
//	cid, err := eng.PostConfession(ctx, author, content.CategorySecrets,
//	    types.HashContent(text), len(text))
//
// Reports are resolved by the ballot that reaches the vote threshold:
//
//	rid, err := eng.ReportContent(ctx, reporter,
//	    moderation.Target{Type: moderation.TargetConfession, ID: cid},
//	    moderation.ReasonSpam)
//	report, err := eng.VoteOnReport(ctx, voter, rid, true)
//
// # Execution model
//
// Commands execute one at a time. Each runs in a store transaction: every
// precondition is checked against staged state, the command is appended to
// the journal, and only then does the transaction commit. Any failure
// discards the transaction, so a command either fully applies or leaves no
// trace. Plugins are notified after commit and never during replay.
//
// Cooldowns and expirations are timestamp comparisons against the command's
// execution time, taken from the engine's Clock. Nothing in the engine
// sleeps or runs in the background.
//
// # Journal
//
// Journal entries carry a TypeID so they can be referenced outside the
// engine:
//
//	op_01h2xcejqtf2nbrexx3vqjhp41
//
// Backends are provided for Pebble, PostgreSQL, SQLite and MongoDB.
package confess
