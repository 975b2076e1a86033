// Package util holds small helpers shared by the gateway and the CLI.
package util
