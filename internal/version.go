package internal

// Version is the levelc release version.
const Version = "0.3.0"
