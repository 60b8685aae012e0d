// Package tokens is the client-side credential store for the OAuth token record.
//
// # Overview
//
// The package defines a Repository interface holding exactly one
// models.TokenRecord. Two implementations exist:
//
//   - FileRepository: JSON at <config dir>/oauth2_tokens.json, mode 0600,
//     written with filex.WriteFileAtomic (temp file, fsync, rename).
//   - KeyringRepository: the operating-system keyring via go-keyring.
//
// # Invariants
//
// A stored record always has both tokens and an expiry. Save rejects anything
// else, and Load reports an unreadable record as common.ErrNotLoggedIn so the
// user is pointed at a fresh login instead of a parse error.
//
// Typical Usage
//
//	repo, _ := tokens.New(cfg.TokenBackend, cfg.ConfigDir)
//	rec, _ := repo.Load(ctx) // nil when logged out
//	_ = repo.Save(ctx, rec)
//	_ = repo.Delete(ctx)
package tokens
