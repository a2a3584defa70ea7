// behaviord records desktop input behavior for user-identity modeling:
// pointer kinematics, key transition timing, and coarse application context,
// appended to a CSV dataset.
//
//	behaviord run               Start a capture session (press q to stop)
//	behaviord sessions          List recorded sessions
//	behaviord config            Print the effective configuration
//	behaviord version           Print the version
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := buildRoot().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
