// Package history records the outcome of table validations.
//
// A Record captures one validation run of one file: the verdict, the report
// lines, how many diagnostics were produced and some facts about the table
// itself. Records are kept by a Storage backend (see the storage
// subpackage) and pruned by age or count (see the retention subpackage).
//
// # Querying
//
// Query filters are combined with AND. Zero values mean "no filter":
//
//	valid := false
//	records, err := store.Query(ctx, &history.Query{
//		File:  "tables/otu.biom",
//		Valid: &valid,
//		Limit: 20,
//	})
//
// Results are ordered by CheckedAt, newest first unless SortOrder is "ASC".
package history
