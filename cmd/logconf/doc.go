// Package main hosts the logconf CLI.
//
// The Cobra command tree scaffolds, validates, and inspects logging
// configuration files, and a demo command exercises a configuration end to
// end so its console and file output can be checked by eye.
package main
