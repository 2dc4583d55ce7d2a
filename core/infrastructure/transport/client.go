package transport

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
	"github.com/carlosrabelo/nicswitch/core/domain/ports"
)

var (
	runnerCache   = make(map[string]ports.CommandRunner)
	runnerCacheMu sync.Mutex
)

func cacheKey(cfg entities.HostConfig) string {
	keyData := struct {
		Transport string
		Target    string
		Port      int
		Username  string
		Password  string
		Elevate   bool
	}{
		Transport: cfg.Transport,
		Target:    cfg.Target,
		Port:      cfg.Port,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Elevate:   cfg.Elevate,
	}
	bytes, _ := json.Marshal(keyData)
	hash := sha256.Sum256(bytes)
	return hex.EncodeToString(hash[:])
}

// Get returns a cached runner for the provided configuration or creates a new one
func Get(cfg entities.HostConfig) ports.CommandRunner {
	runnerCacheMu.Lock()
	defer runnerCacheMu.Unlock()
	key := cacheKey(cfg)
	if runner, exists := runnerCache[key]; exists {
		return runner
	}
	runner := newRunner(cfg)
	runnerCache[key] = runner
	return runner
}

// CloseAll releases every cached runner session
func CloseAll() {
	runnerCacheMu.Lock()
	defer runnerCacheMu.Unlock()
	for key, runner := range runnerCache {
		runner.Disconnect()
		delete(runnerCache, key)
	}
}

func newRunner(cfg entities.HostConfig) ports.CommandRunner {
	switch cfg.Transport {
	case "ssh":
		return NewSSHRunner(cfg)
	case "telnet":
		return NewTelnetRunner(cfg)
	default:
		return NewLocalRunner(cfg)
	}
}

var (
	_ ports.CommandRunner = (*LocalRunner)(nil)
	_ ports.CommandRunner = (*SSHRunner)(nil)
	_ ports.CommandRunner = (*TelnetRunner)(nil)
)
