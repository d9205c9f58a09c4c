// Package authapi is the typed client for the dashboard's three auth
// endpoints: login, refresh, and logout. It maps transport failures and
// server verdicts to the sentinel errors the session manager's state
// machine keys on.
package authapi
