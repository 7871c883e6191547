// tablecheck validates BIOM 1.0 observation tables.
//
// It checks that a JSON (or YAML) document describing a sparse or dense
// observation matrix has every required field, that each field holds an
// allowed value, and that the declared shape agrees with the rows, columns
// and data actually present.
//
// Usage:
//
//	# Validate one or more tables
//	tablecheck validate otu_table.biom other.biom
//
//	# Print a confirmation line for every check that passed
//	tablecheck validate --detailed otu_table.biom
//
//	# Machine-readable output
//	tablecheck validate --format json tables/
//
//	# Revalidate tables as they change, serving Prometheus metrics
//	tablecheck watch tables/ --metrics
//
//	# Show recorded results
//	tablecheck history --file otu_table.biom --invalid
package main

func main() {
	Execute()
}
