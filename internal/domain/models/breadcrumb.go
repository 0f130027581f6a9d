package models

// Breadcrumb is one entry of the navigation trail. The trail is explicit
// navigation state, not a reconstruction of the ancestor chain: entering a
// folder always yields the 2-entry path [root, folder], and intermediate
// ancestry is intentionally discarded.
type Breadcrumb struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
