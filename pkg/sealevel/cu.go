package sealevel

const CUSystemProgramDefaultComputeUnits = 150
