// Package html provides a Normaliser for pages captured as raw HTML.
// It drops scripts, styles and other non-text elements, strips tags and
// decodes entities before the shared cleaning pass.
package html
