package mcphost

import (
	"fmt"
	"strings"
)

// ConfigError reports a configuration file that could not be read or parsed.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("mcphost: invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("mcphost: invalid configuration %q: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NotFoundError reports a server name that does not exist in the loaded
// configuration.
type NotFoundError struct {
	Server string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("mcphost: server %q not found in configuration", e.Server)
}

// NotConnectedError reports an operation against a server name that is absent
// from the connection registry. It is returned before any I/O is attempted.
type NotConnectedError struct {
	Server string
}

func (e *NotConnectedError) Error() string {
	return fmt.Sprintf("mcphost: server %q is not connected", e.Server)
}

// ConnectError reports a failed subprocess spawn or protocol handshake for
// one server.
type ConnectError struct {
	Server string
	Err    error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("mcphost: connect to %q failed: %v", e.Server, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// RemoteError reports a failure returned by a remote call. Unsupported marks
// the structural "method not supported" condition, which bulk discovery
// treats as an expected per-server gap rather than a fault.
type RemoteError struct {
	Server      string
	Method      string
	Unsupported bool
	Err         error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("mcphost: %s on %q failed: %v", e.Method, e.Server, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// remoteFailure classifies an error returned by the protocol client into a
// *RemoteError. Classification happens here, once, at the collaborator
// boundary; every call site then branches on the Unsupported tag instead of
// re-inspecting protocol error codes.
func remoteFailure(server, method string, err error) *RemoteError {
	return &RemoteError{
		Server:      server,
		Method:      method,
		Unsupported: isMethodUnavailableError(err, method),
		Err:         err,
	}
}

// isMethodUnavailableError reports whether err looks like the server-side
// "method not found" family of JSON-RPC failures for the given method. The
// SDK surfaces these as flattened strings, so this matches the wire error
// code and the common phrasings.
func isMethodUnavailableError(err error, method string) bool {
	if err == nil {
		return false
	}
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "-32601") {
		return true
	}
	if !(strings.Contains(lower, "method not found") ||
		strings.Contains(lower, "not implemented") ||
		strings.Contains(lower, "unsupported") ||
		strings.Contains(lower, "does not support") ||
		strings.Contains(lower, "unimplemented")) {
		return false
	}
	method = strings.ToLower(method)
	if strings.Contains(lower, method) {
		return true
	}
	for _, part := range strings.FieldsFunc(method, func(r rune) bool {
		return r == '/' || r == ':' || r == '.' || r == '_' || r == '-'
	}) {
		if part != "" && strings.Contains(lower, part) {
			return true
		}
	}
	return true
}
