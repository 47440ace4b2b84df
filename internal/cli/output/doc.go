// Package output renders command results as a table, JSON or YAML.
//
// Table output is for people: values that know how to lay themselves out
// implement Tabular, maps become sorted KEY/VALUE rows and scalars print as
// is. JSON and YAML are for scripts and encode the value unchanged.
package output
