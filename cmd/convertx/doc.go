// Command convertx is the command-line client for the convertxd daemon.
package main
