package snmp

import (
	"context"
	"fmt"
	"time"

	"github.com/gosnmp/gosnmp"
	"go.uber.org/zap"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

// DriverName is the canonical platform identifier
const DriverName = "snmp"

// IF-MIB objects
const (
	oidIfDescr       = ".1.3.6.1.2.1.2.2.1.2"
	oidIfAdminStatus = ".1.3.6.1.2.1.2.2.1.7"
	oidIfOperStatus  = ".1.3.6.1.2.1.2.2.1.8"
	oidIfName        = ".1.3.6.1.2.1.31.1.1.1.1"

	statusUp   = 1
	statusDown = 2
)

// client is the subset of *gosnmp.GoSNMP used by Device
type client interface {
	WalkAll(rootOid string) ([]gosnmp.SnmpPDU, error)
	BulkWalkAll(rootOid string) ([]gosnmp.SnmpPDU, error)
	Set(pdus []gosnmp.SnmpPDU) (*gosnmp.SnmpPacket, error)
}

type dialFunc func(ctx context.Context) (client, func(), error)

// Device lists and toggles the interfaces of a remote device through IF-MIB.
// It serves as both adapter directory and adapter controller.
type Device struct {
	target      string
	config      entities.SNMPConfig
	settleDelay time.Duration
	sandbox     bool
	dial        dialFunc
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewDevice creates a device for the host described by cfg
func NewDevice(cfg entities.HostConfig) *Device {
	d := &Device{
		target:      cfg.Target,
		config:      cfg.SNMP,
		settleDelay: cfg.SettleDelay,
		sandbox:     cfg.Sandbox,
		sleep:       sleepContext,
	}
	d.dial = d.dialGoSNMP
	return d
}

func (d *Device) dialGoSNMP(ctx context.Context) (client, func(), error) {
	version := gosnmp.Version2c
	if d.config.Version == "1" {
		version = gosnmp.Version1
	}
	port := d.config.Port
	if port == 0 {
		port = 161
	}
	c := &gosnmp.GoSNMP{
		Target:    d.target,
		Port:      uint16(port),
		Community: d.config.Community,
		Version:   version,
		Timeout:   d.config.Timeout,
		Retries:   0,
		Context:   ctx,
	}
	if err := c.Connect(); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s via SNMP: %w", d.target, err)
	}
	return c, func() { c.Conn.Close() }, nil
}

// List walks the interface table and returns every named interface in ifIndex order
func (d *Device) List(ctx context.Context) ([]entities.Adapter, error) {
	c, closeFn, err := d.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return d.list(c)
}

func (d *Device) list(c client) ([]entities.Adapter, error) {
	names, err := d.walk(c, d.nameOID())
	if err != nil {
		return nil, fmt.Errorf("failed to walk interface names on %s: %w", d.target, err)
	}
	statuses, err := d.walk(c, oidIfOperStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to walk ifOperStatus on %s: %w", d.target, err)
	}
	return buildAdapters(names, statuses), nil
}

func (d *Device) ListNames(ctx context.Context) ([]string, error) {
	adapters, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	return entities.AdapterNames(adapters), nil
}

func (d *Device) IsConnected(ctx context.Context, name string) (bool, error) {
	adapters, err := d.List(ctx)
	if err != nil {
		return false, err
	}
	for _, a := range adapters {
		if a.Name == name {
			return a.IsConnected(), nil
		}
	}
	return false, fmt.Errorf("%w: %s", entities.ErrAdapterNotFound, name)
}

// Enable sets ifAdminStatus to up
func (d *Device) Enable(ctx context.Context, name string) error {
	return d.setAdminStatus(ctx, name, statusUp)
}

// Disable sets ifAdminStatus to down
func (d *Device) Disable(ctx context.Context, name string) error {
	return d.setAdminStatus(ctx, name, statusDown)
}

func (d *Device) setAdminStatus(ctx context.Context, name string, status int) error {
	c, closeFn, err := d.dial(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	names, err := d.walk(c, d.nameOID())
	if err != nil {
		return fmt.Errorf("failed to walk interface names on %s: %w", d.target, err)
	}
	ifIndex, ok := findIndex(names, name)
	if !ok {
		return fmt.Errorf("%w: %s", entities.ErrAdapterNotFound, name)
	}

	pdu := gosnmp.SnmpPDU{
		Name:  fmt.Sprintf("%s.%d", oidIfAdminStatus, ifIndex),
		Type:  gosnmp.Integer,
		Value: status,
	}
	if d.sandbox {
		zap.S().Infow("dry-run: skipping SNMP set", "target", d.target, "oid", pdu.Name, "value", status)
		return nil
	}

	result, err := c.Set([]gosnmp.SnmpPDU{pdu})
	if err != nil {
		return fmt.Errorf("failed to set ifAdminStatus for %s on %s: %w", name, d.target, err)
	}
	if result != nil && result.Error != gosnmp.NoError {
		return fmt.Errorf("failed to set ifAdminStatus for %s on %s: %s", name, d.target, result.Error)
	}
	zap.S().Debugw("SNMP set applied", "target", d.target, "interface", name, "ifIndex", ifIndex, "value", status)

	if err := d.sleep(ctx, d.settleDelay); err != nil {
		zap.S().Debugw("settle delay interrupted", "target", d.target, "interface", name, "error", err)
	}
	return nil
}

func (d *Device) walk(c client, oid string) ([]gosnmp.SnmpPDU, error) {
	if d.config.Version == "1" {
		return c.WalkAll(oid)
	}
	return c.BulkWalkAll(oid)
}

func (d *Device) nameOID() string {
	if d.config.NameOID == "ifName" {
		return oidIfName
	}
	return oidIfDescr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
