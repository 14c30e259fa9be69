// Package report renders run artifacts for a site registry: a PNG scatter of
// placed sites and an HTML chart of the chanced pick odds.
package report
