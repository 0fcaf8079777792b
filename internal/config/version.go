package config

// Version is the visitgraph binary version.
// Set at build time via: -ldflags "-X github.com/persistorai/visitgraph/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
