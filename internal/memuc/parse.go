package memuc

import (
	"net"
	"net/netip"
	"regexp"
	"strconv"
	"strings"
)

var (
	createdIndexRE = regexp.MustCompile(`index:(\d+)`)
	taskIDRE       = regexp.MustCompile(`(?i)task\s*id\s*[:=]?\s*([0-9A-Za-z_-]+)`)
)

const (
	noVMsMarker        = "read failed"
	runningMarker      = "Running"
	notRunningMarker   = "Not Running"
	vmNotRunningMarker = "cmd: Can't find service: package"
	valuePrefix        = "Value: "
	packagePrefix      = "package:"
	connectedMarker    = "connected to "
)

// lines splits output into lines without trailing CR, dropping empty ones.
func lines(output string) []string {
	var out []string
	for _, l := range strings.Split(output, "\n") {
		if l = strings.TrimRight(l, "\r"); strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// parseCreatedIndex returns the index memuc assigned to a new VM, or -1 when
// the acknowledgement did not name one.
func parseCreatedIndex(output string) int {
	m := createdIndexRE.FindStringSubmatch(output)
	if m == nil {
		return -1
	}
	i, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return i
}

// parseTaskID extracts the task id from a non-blocking acknowledgement.
func parseTaskID(output string) TaskID {
	m := taskIDRE.FindStringSubmatch(output)
	if m == nil {
		return ""
	}
	return TaskID(m[1])
}

// parseVMList parses listvms output: one comma separated row per VM of
// index, title, top-level window handle, running flag, pid and, when
// diskInfo is set, disk usage in bytes. Titles may contain commas, so the
// fixed columns are read from both ends of the row.
func parseVMList(op, output string, diskInfo bool) ([]VMInfo, error) {
	if strings.Contains(output, noVMsMarker) {
		return []VMInfo{}, nil
	}

	trailing := 3
	if diskInfo {
		trailing = 4
	}

	vms := []VMInfo{}
	for _, row := range lines(output) {
		fields := strings.Split(row, ",")
		if len(fields) < trailing+2 {
			return nil, &ParseError{Op: op, What: "vm row", Output: row}
		}
		index, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, &ParseError{Op: op, What: "vm index", Output: row}
		}
		tail := fields[len(fields)-trailing:]

		var running bool
		switch strings.TrimSpace(tail[1]) {
		case "1":
			running = true
		case "0":
		default:
			return nil, &ParseError{Op: op, What: "vm running flag", Output: row}
		}
		pid, err := strconv.Atoi(strings.TrimSpace(tail[2]))
		if err != nil {
			return nil, &ParseError{Op: op, What: "vm pid", Output: row}
		}
		vm := VMInfo{
			Index:     index,
			Title:     strings.Join(fields[1:len(fields)-trailing], ","),
			TopLevel:  tail[0],
			Running:   running,
			PID:       pid,
			DiskUsage: -1,
		}
		if diskInfo {
			vm.DiskUsage, err = strconv.ParseInt(strings.TrimSpace(tail[3]), 10, 64)
			if err != nil {
				return nil, &ParseError{Op: op, What: "vm disk usage", Output: row}
			}
		}
		vms = append(vms, vm)
	}
	return vms, nil
}

// parseRunning reads isrunning output, which says "Running" or
// "Not Running".
func parseRunning(output string) bool {
	return strings.Contains(output, runningMarker) && !strings.Contains(output, notRunningMarker)
}

// parseConfigValue returns the text after "Value: ".
func parseConfigValue(op, output string) (string, error) {
	_, value, ok := strings.Cut(output, valuePrefix)
	if !ok {
		return "", &ParseError{Op: op, What: "config value", Output: output}
	}
	value = strings.NewReplacer("\r", "", "\n", "").Replace(value)
	return value, nil
}

// parseAppList returns the package names from getappinfolist output.
func parseAppList(output string) ([]string, error) {
	if strings.Contains(output, vmNotRunningMarker) {
		return nil, ErrVMNotRunning
	}
	pkgs := []string{}
	for _, l := range lines(output) {
		pkgs = append(pkgs, strings.TrimSpace(strings.TrimPrefix(l, packagePrefix)))
	}
	return pkgs, nil
}

// parseADBConnection reads the "connected to host:port" notice memuc prints
// on the first line of adb output.
func parseADBConnection(op, output string) (string, int, error) {
	first, _, _ := strings.Cut(output, "\n")
	first = strings.TrimSpace(first)

	_, addr, ok := strings.Cut(first, connectedMarker)
	if !ok {
		return "", 0, &ParseError{Op: op, What: "adb connection", Output: first}
	}
	host, portStr, err := net.SplitHostPort(strings.TrimSpace(addr))
	if err != nil {
		return "", 0, &ParseError{Op: op, What: "adb connection", Output: first}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, &ParseError{Op: op, What: "adb port", Output: first}
	}
	return host, port, nil
}

// parsePublicIP returns the last line of output that is an IP address.
// wget writes progress chatter around the answer.
func parsePublicIP(op, output string) (netip.Addr, error) {
	ls := lines(output)
	for i := len(ls) - 1; i >= 0; i-- {
		if addr, err := netip.ParseAddr(strings.TrimSpace(ls[i])); err == nil {
			return addr, nil
		}
	}
	return netip.Addr{}, &ParseError{Op: op, What: "ip address", Output: output}
}
