package features

import (
	"go.firedancer.io/progtest/pkg/base58"
)

type FeatureGate struct {
	Name    string
	Address [32]byte
}

var StopTruncatingStringsInSyscalls = FeatureGate{Name: "StopTruncatingStringsInSyscalls", Address: base58.MustDecodeFromString("16FMCmgLzCNNz6eTwGanbyN2ZxvTBSLuQ6DZhgeMshg")}
var EnablePartitionedEpochReward = FeatureGate{Name: "EnablePartitionedEpochReward", Address: base58.MustDecodeFromString("41tVp5qR1XwWRt5WifvtSQyuxtqQWJgEK8w91AtBqSwP")}
var LastRestartSlotSysvar = FeatureGate{Name: "LastRestartSlotSysvar", Address: base58.MustDecodeFromString("HooKD5NC9QNxk25QuzCssB8ecrEzGt6eXEPBUxWp1LaR")}

// Lookup finds a gate by name.
func Lookup(name string) (FeatureGate, bool) {
	for _, gate := range AllFeatureGates {
		if gate.Name == name {
			return gate, true
		}
	}
	return FeatureGate{}, false
}

// AllFeatureGates lists every gate the runtime consults.
var AllFeatureGates = []FeatureGate{
	StopTruncatingStringsInSyscalls,
	EnablePartitionedEpochReward,
	LastRestartSlotSysvar,
}
