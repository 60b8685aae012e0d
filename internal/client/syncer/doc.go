// Package syncer reconciles the remote bookmark collection with the local
// first-seen ledger.
//
// A run walks every page of the remote list. Unknown ids are inserted with
// today's local date as their first-seen date; known ids only get their
// cached display fields replaced. Once the last page has been read, ids that
// were not seen are removed, so the ledger mirrors the remote set exactly.
//
// If a page cannot be fetched the run stops: what was merged so far is saved,
// nothing is removed and last_synced_at keeps its previous value.
package syncer
