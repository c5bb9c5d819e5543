package config

import (
	"os"
	"sync"
)

var (
	isDockerOnce   sync.Once
	isDockerResult bool
)

// IsRunningInDocker returns true if the application is running inside a Docker container.
// Detection is based on the presence of /.dockerenv. The result is cached after the first call.
func IsRunningInDocker() bool {
	isDockerOnce.Do(func() {
		_, err := os.Stat("/.dockerenv")
		isDockerResult = err == nil
	})
	return isDockerResult
}

// IsLoopbackHost reports whether host names the local machine.
func IsLoopbackHost(host string) bool {
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// ResolveHostForDocker returns the host to dial for a datasource. Inside Docker a
// loopback host is replaced with host.docker.internal so the service can reach a
// database running on the host machine.
func ResolveHostForDocker(host string) string {
	if !IsRunningInDocker() || !IsLoopbackHost(host) {
		return host
	}
	return "host.docker.internal"
}
