package types

// Version is overwritten at build time by -ldflags "-X".
var Version = "dev"
