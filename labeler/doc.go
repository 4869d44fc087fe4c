// SPDX-License-Identifier: MIT

// Package labeler assigns deterministic, human-readable, collision-free
// labels of the form "<token>_ASV-<i>" to features within a taxonomic rank.
//
// i is the 1-based position of a feature among the features sharing its
// rank token, ordered by descending total abundance with ties broken by
// ascending feature identifier. Relabel applies an Assignment to a table;
// Restrict keeps the side table in sync with a table subset.
package labeler
