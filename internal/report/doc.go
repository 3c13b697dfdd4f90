// Package report renders audit results in multiple output formats.
//
// Three writers share the Writer interface: SimpleWriter for terminal
// display, JSONWriter for tool integration, and MarkdownWriter for
// documentation and sharing. MultiWriter fans one report out to several
// destinations at once, which is how the CLI writes to both the terminal
// and a report file.
package report
