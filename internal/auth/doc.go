// Package auth resolves request sessions into identities and decides whether an identity may
// perform an operation.
//
// Sessions are HS256 JSON Web Tokens carried either in the session cookie or in a Bearer
// Authorization header. The token only names the user; the role is re-read from the store on
// every request so promotions and demotions apply immediately.
package auth
