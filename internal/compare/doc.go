// Package compare ranks a site's privacy score against three baseline
// populations: the site category's benchmark distribution, the caller's own
// browsing history, and peer sites in the same category.
package compare
