package buildinfo

var (
	// Version is stamped via ldflags at release time.
	Version = "dev"
	// Commit is stamped via ldflags at release time.
	Commit = "none"
	// Date is stamped via ldflags at release time.
	Date = "unknown"
)
