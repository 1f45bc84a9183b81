// Package build turns published Markdown documents into rendered output.
//
// A build runs five sequential stages: documents (Markdown conversion and
// post templates), listings (sorted and transformed document sets rendered
// through listing templates), feeds, assets (reference collection and output
// de-duplication) and write. One template cache lives for the duration of a
// single Run and is never shared between builds.
package build
