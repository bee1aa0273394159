package prog

// Version is the version of the compiler library compiled into this binary.
const Version = "0.16.0"
