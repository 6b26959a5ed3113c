package pbdb

// Version is the app's version. It is set by the build process
// via ldflags.
var Version = "v0.1.0"

// Build is the build timestamp. It is set by the build process
// via ldflags.
var Build = "n/a"
