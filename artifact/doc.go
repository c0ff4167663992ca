// Package artifact reads and writes the files the pipeline stages hand to one another:
// - the raw snapshot, a pretty-printed JSON document
// - silver partitions and the gold aggregate, parquet files of a fixed row type
//
// All writes go through filepaths.WriteFileAtomic, so a failed write never replaces an existing artifact.
package artifact
