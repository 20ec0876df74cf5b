// Package features tracks the feature gates that change what a program
// observes at runtime.
package features

import (
	"fmt"
	"sort"

	"go.firedancer.io/progtest/pkg/base58"
)

type Features struct {
	// activation slot per enabled gate
	enabled map[[32]byte]uint64
	names   map[[32]byte]string
}

// NewFeaturesDefault returns a feature set with nothing enabled.
func NewFeaturesDefault() *Features {
	return &Features{
		enabled: make(map[[32]byte]uint64),
		names:   make(map[[32]byte]string),
	}
}

// NewFeaturesAllEnabled returns a feature set with every known gate active
// since slot 0.
func NewFeaturesAllEnabled() *Features {
	f := NewFeaturesDefault()
	for _, gate := range AllFeatureGates {
		f.EnableFeature(gate, 0)
	}
	return f
}

func (f *Features) EnableFeature(gate FeatureGate, slot uint64) {
	f.enabled[gate.Address] = slot
	f.names[gate.Address] = gate.Name
}

func (f *Features) DisableFeature(gate FeatureGate) {
	delete(f.enabled, gate.Address)
}

// IsActive reports whether gate is enabled. A nil set has nothing enabled.
func (f *Features) IsActive(gate FeatureGate) bool {
	if f == nil {
		return false
	}
	_, ok := f.enabled[gate.Address]
	return ok
}

func (f *Features) AllEnabled() []string {
	var enabled []string
	for addr := range f.enabled {
		enabled = append(enabled, fmt.Sprintf("feature %s (%s) enabled", f.names[addr], base58.Encode(addr[:])))
	}
	sort.Strings(enabled)
	return enabled
}
