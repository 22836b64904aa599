package version

// Version is the binarray release. It is overridden at link time with
// -ldflags "-X github.com/untodesu/binarray/version.Version=...".
var Version = "v0.1.0-dev"
