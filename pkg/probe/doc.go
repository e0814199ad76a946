// Package probe implements the external health probe used by container
// orchestrators: one GET against the server's /health endpoint, reported
// as an exit code.
//
// The probe never shares state with the server it checks. It is meant to
// be run as a short-lived process:
//
//	os.Exit(probe.FromEnv().Run(context.Background(), os.Stdout, os.Stderr))
package probe
