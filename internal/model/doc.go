// Package model defines the core data structures used throughout webdoctor.
//
// This package contains the following main types:
//   - Page: The structural facts extracted from one crawled URL
//   - Link, Image: Sub-entities of Page
//   - AuditReport: The main audit result structure
//   - Issue, Severity: Rule violations and their risk levels
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, extract, rules, report) need to use
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output.
package model
