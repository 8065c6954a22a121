// Package content holds the companion site's persisted entities (users, wiki entries, FAQ,
// media, roadmap and devblog) together with the Gorm repository that reads and writes them.
//
// Repository methods accept request-shaped inputs and return JSON-shaped views, so list and
// relation includes, serialized-list decoding and race-name resolution all happen here.
package content
