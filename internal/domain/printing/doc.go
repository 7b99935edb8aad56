// Package printing holds the page settings a document is printed with:
// the sheet format, its margins and the HTML template laid out on it.
package printing
