// Package git resolves the source revision the documentation is generated from,
// so the site manifest can record which commit produced it.
package git
