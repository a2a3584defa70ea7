package foreground

import (
	"os"

	"github.com/shirou/gopsutil/v4/process"
)

// countProcessesExcludingSelf enumerates live pids and subtracts this
// process by pid. Counting by identity rather than subtracting one keeps
// the result correct even if multiple recorder instances are running.
func countProcessesExcludingSelf() (int, error) {
	pids, err := process.Pids()
	if err != nil {
		return 0, err
	}
	self := int32(os.Getpid())
	n := 0
	for _, pid := range pids {
		if pid != self {
			n++
		}
	}
	return n, nil
}
