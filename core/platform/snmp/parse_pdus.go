package snmp

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gosnmp/gosnmp"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

// ifIndexOf returns the last sub-identifier of a table column OID
func ifIndexOf(oid string) (int, bool) {
	idx := strings.LastIndex(oid, ".")
	if idx < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(oid[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

func pduString(pdu gosnmp.SnmpPDU) string {
	switch v := pdu.Value.(type) {
	case []byte:
		return strings.TrimRight(string(v), "\x00")
	case string:
		return v
	default:
		return ""
	}
}

func buildAdapters(names, statuses []gosnmp.SnmpPDU) []entities.Adapter {
	oper := make(map[int]int64, len(statuses))
	for _, pdu := range statuses {
		if idx, ok := ifIndexOf(pdu.Name); ok {
			oper[idx] = gosnmp.ToBigInt(pdu.Value).Int64()
		}
	}

	type indexed struct {
		index int
		name  string
	}
	rows := make([]indexed, 0, len(names))
	for _, pdu := range names {
		idx, ok := ifIndexOf(pdu.Name)
		name := strings.TrimSpace(pduString(pdu))
		if !ok || name == "" {
			continue
		}
		rows = append(rows, indexed{index: idx, name: name})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].index < rows[j].index })

	adapters := make([]entities.Adapter, 0, len(rows))
	for _, row := range rows {
		adapters = append(adapters, entities.Adapter{
			Name:  row.name,
			State: entities.StateFromConnected(oper[row.index] == statusUp),
		})
	}
	return adapters
}

func findIndex(names []gosnmp.SnmpPDU, name string) (int, bool) {
	for _, pdu := range names {
		if strings.TrimSpace(pduString(pdu)) != name {
			continue
		}
		if idx, ok := ifIndexOf(pdu.Name); ok {
			return idx, true
		}
	}
	return 0, false
}
