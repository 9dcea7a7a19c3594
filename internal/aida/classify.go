package aida

import "strings"

// Status is the threshold classification of a rounded temperature.
type Status string

const (
	StatusNormal   Status = "Normal"
	StatusWarning  Status = "Warning"
	StatusCritical Status = "Critical"
)

// Temperature thresholds in °C. Both boundaries are exclusive.
const (
	CriticalAbove = 80.0
	WarningAbove  = 70.0
)

// Classify maps a rounded temperature to a Status.
func Classify(temp float64) Status {
	switch {
	case temp > CriticalAbove:
		return StatusCritical
	case temp > WarningAbove:
		return StatusWarning
	default:
		return StatusNormal
	}
}

// coreRule maps a sensor-name substring to a core count.
type coreRule struct {
	substr string
	cores  int
}

// coreRules are evaluated top to bottom; the first match wins.
var coreRules = []coreRule{
	{substr: "Package", cores: 8},
	{substr: "IA", cores: 4},
	{substr: "GT", cores: 4},
	{substr: "HDD", cores: 0},
}

// defaultCores applies when no rule matches.
const defaultCores = 1

// CoresFor infers the core count of a sensor from its name.
func CoresFor(name string) int {
	for _, rule := range coreRules {
		if strings.Contains(name, rule.substr) {
			return rule.cores
		}
	}
	return defaultCores
}

// IsDisk reports whether the sensor is disk-like. Disk sensors carry no usage.
func IsDisk(name string) bool {
	return strings.Contains(name, "HDD")
}

// SensorID derives a stable identifier from a sensor name: lower-cased, with
// every character outside [a-z0-9] replaced by '-'. Characters outside the
// Basic Multilingual Plane count as two, as they do in UTF-16.
func SensorID(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r > 0xFFFF:
			b.WriteString("--")
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
