// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle: resolve
// settings, open the script and the device connection, run the interpreter,
// and release everything on the way out, whichever path is taken.
package app
