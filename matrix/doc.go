// Package matrix provides the numeric storage behind every abundance table.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 buffer with bounds-checked At/Set that
//     return sentinel errors instead of panicking.
//   - Copy-based submatrix extraction (Induced) and transpose (T), the two
//     primitives table row/column selection is built on.
//   - Axis reductions (RowSums, ColSums, ColNonZero) accumulated with
//     compensated summation, so sums over large count tables keep full
//     float64 precision.
//   - Value-domain validators (ValidateNonNegative, ValidateCounts).
//
// Zero-sized shapes are legal everywhere: filtering may leave a table with
// no samples, and that table must still be representable.
package matrix
