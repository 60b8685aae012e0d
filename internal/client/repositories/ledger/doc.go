// Package ledger persists the bookmark first-seen ledger.
//
// The ledger is a single JSON document at <config dir>/bookmark_state.json:
//
//	{
//	  "entries": {
//	    "101": {"id": "101", "first_seen_date": "2026-02-10", "cached_fields": {...}}
//	  },
//	  "last_synced_at": "2026-02-11T09:30:00+01:00"
//	}
//
// Writes go through filex.WriteFileAtomic, so a crash mid-write leaves the
// previous ledger intact. Object keys are emitted in sorted order, which makes
// two equal ledgers byte-identical on disk.
//
// A missing file is the normal first-run state and loads as an empty ledger.
// A file that exists but cannot be decoded is reported as
// common.ErrCorruptLedger and is never overwritten by Load.
package ledger
