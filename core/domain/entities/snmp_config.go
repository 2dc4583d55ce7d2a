package entities

import "time"

// SNMPConfig holds the parameters used to manage a remote device's interfaces over SNMP
type SNMPConfig struct {
	Community string        `yaml:"community" default:"public"`
	Port      int           `yaml:"port" default:"161"`
	Version   string        `yaml:"version" default:"2c"`
	Timeout   time.Duration `yaml:"timeout" default:"5s"`
	NameOID   string        `yaml:"name_oid" default:"ifDescr"` // ifDescr or ifName
}
