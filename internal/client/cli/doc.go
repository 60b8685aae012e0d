// Package cli implements the xbm command line.
//
// Commands:
//
//	xbm list [--max N] [--since D] [--until D]
//	xbm sync
//	xbm add <id|url>
//	xbm remove <id|url>
//	xbm auth login [--port P]
//	xbm auth status
//	xbm auth logout
//
// App.Run is the error boundary: command errors are printed to stderr with a
// hint for the user and mapped to exit status 1.
package cli
