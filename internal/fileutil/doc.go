// Package fileutil holds the filesystem checks shared by configuration
// validation and the file output: directory creation, writability probes, and
// the blank-line separator written between process runs.
package fileutil
