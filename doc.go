// Package dashboard is the client core of the Kaacib company dashboard:
// the session/authentication lifecycle and the short-lived reference-data
// cache the UI shell builds on.
//
// The shell creates one Client per process, calls Restore once at
// startup, and from then on the core keeps the session alive — a
// proactive timer renews tokens five minutes before expiry, and any
// authorization-denied API response triggers one refresh and one replay.
// When renewal fails, the session tears down cleanly and the shell
// redirects to login; there is no retry loop to storm the auth server.
//
//	cfg, err := dashboard.LoadConfig("")
//	if err != nil { ... }
//	client, err := dashboard.New(cfg)
//	if err != nil { ... }
//	defer client.Close()
//
//	if !client.Restore(ctx) {
//	    // show login view
//	}
//
//	branches, err := dashboard.Reference(ctx, client, "branches", fetchBranches)
package dashboard
