package resolve

import (
	"strconv"
)

// Variable names contributed to and read from host vars.
const (
	VarPort       = "ansible_port"
	VarConnection = "ansible_connection"
)

// Connection types derived when the host does not specify one.
const (
	ConnectionSSH   = "ssh"
	ConnectionWinRM = "winrm"
)

const (
	defaultSSHPort = 22
	winrmHTTPPort  = 5985
	winrmHTTPSPort = 5986
)

// ConnectionDefaults carries the derived network connection settings for a
// host. HasPort is false when the host specified a connection type but no
// port: no port default is applied and the accumulator receives no
// ansible_port entry.
type ConnectionDefaults struct {
	Port       int
	HasPort    bool
	Connection string
}

// ResolveConnectionDefaults derives connection settings from a host's
// pre-existing vars without mutating them.
//
// Rules, in order: a given port is used unchanged; with neither port nor
// connection given, the port defaults to 22. A given connection type is used
// unchanged; otherwise winrm is derived when the resolved port is 5985 or
// 5986, ssh in every other case.
func ResolveConnectionDefaults(vars map[string]any) ConnectionDefaults {
	port, portGiven := intVar(vars, VarPort)
	connection, connectionGiven := stringVar(vars, VarConnection)

	var d ConnectionDefaults
	switch {
	case portGiven:
		d.Port = port
		d.HasPort = true
	case !connectionGiven:
		d.Port = defaultSSHPort
		d.HasPort = true
	}

	switch {
	case connectionGiven:
		d.Connection = connection
	case d.HasPort && (d.Port == winrmHTTPPort || d.Port == winrmHTTPSPort):
		d.Connection = ConnectionWinRM
	default:
		d.Connection = ConnectionSSH
	}

	return d
}

// intVar reads an integer variable, coercing the numeric types YAML and JSON
// decoding produce plus numeric strings.
func intVar(vars map[string]any, name string) (int, bool) {
	raw, exists := vars[name]
	if !exists || raw == nil {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// stringVar reads a non-empty string variable.
func stringVar(vars map[string]any, name string) (string, bool) {
	raw, exists := vars[name]
	if !exists || raw == nil {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
