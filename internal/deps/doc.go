// Package deps checks the availability of the external converter binaries
// and of the workspace the daemon writes into.
package deps
