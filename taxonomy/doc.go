// SPDX-License-Identifier: MIT

// Package taxonomy parses semicolon-delimited lineage strings into the seven
// fixed ranks (Kingdom … Species) and resolves feature identifiers to their
// lineage.
//
// Missing taxonomy is routine data, not an error: a feature without a
// lineage resolves to the sentinel "Unknown" lineage, and ResolveAll reports
// how many features lacked full resolution.
package taxonomy
