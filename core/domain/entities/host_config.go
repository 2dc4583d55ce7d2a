package entities

import "time"

// HostConfig describes where and how adapter commands are executed
type HostConfig struct {
	Platform      string        `yaml:"platform" default:"auto"`
	Transport     string        `yaml:"transport" default:"local"`
	Target        string        `yaml:"target"`
	Port          int           `yaml:"port"`
	Username      string        `yaml:"username"`
	Password      string        `yaml:"password"`
	Elevate       bool          `yaml:"elevate" default:"true"`
	SettleDelay   time.Duration `yaml:"settle_delay" default:"1s"`
	ActionTimeout time.Duration `yaml:"action_timeout" default:"60s"`
	SNMP          SNMPConfig    `yaml:"snmp"`
	Sandbox       bool          `yaml:"-"`
}

// IsRemote returns true when commands run on another machine
func (hc HostConfig) IsRemote() bool {
	return hc.Transport == "ssh" || hc.Transport == "telnet"
}
