package program

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/progtest/pkg/sysvar"
)

type recordingStubs struct {
	DefaultSyscallStubs
	logs       []string
	returnData []byte
	clock      sysvar.Clock
}

func (r *recordingStubs) Log(message string) {
	r.logs = append(r.logs, message)
}

func (r *recordingStubs) SetReturnData(data []byte) error {
	r.returnData = data
	return nil
}

func (r *recordingStubs) GetSysvar(kind sysvar.Kind, dst []byte) uint64 {
	if kind != sysvar.KindClock {
		return UnsupportedSysvar
	}
	data, err := sysvar.Marshal(&r.clock)
	if err != nil {
		return InvalidArgument
	}
	copy(dst, data)
	return Success
}

func withStubs(t *testing.T, s SyscallStubs) {
	prev := SetSyscallStubs(s)
	t.Cleanup(func() { SetSyscallStubs(prev) })
}

func TestSyscalls_Default(t *testing.T) {
	_, err := GetRent()
	assert.Equal(t, ErrUnsupportedSysvar, err)

	_, _, ok := GetReturnData()
	assert.False(t, ok)

	assert.Equal(t, ErrSyscallUnavailable, Invoke(Instruction{}, nil))
	assert.Equal(t, uint64(0), GetStackHeight())
}

func TestSyscalls_Installed(t *testing.T) {
	stubs := &recordingStubs{clock: sysvar.Clock{Slot: 77, UnixTimestamp: -1}}
	withStubs(t, stubs)

	Msg("one")
	Msgf("two %d", 2)
	assert.Equal(t, []string{"one", "two 2"}, stubs.logs)

	clock, err := GetClock()
	require.NoError(t, err)
	assert.Equal(t, uint64(77), clock.Slot)
	assert.Equal(t, int64(-1), clock.UnixTimestamp)

	_, err = GetFees()
	assert.Equal(t, ErrUnsupportedSysvar, err)

	require.NoError(t, SetReturnData([]byte{1}))
	assert.Equal(t, []byte{1}, stubs.returnData)
	assert.Equal(t, ErrInvalidArgument, SetReturnData(make([]byte, MaxReturnData+1)))
}

func TestSystemTransfer_Encoding(t *testing.T) {
	from := solana.PublicKey{1}
	to := solana.PublicKey{2}
	ix := SystemTransfer(from, to, 258)

	assert.Equal(t, SystemProgramID, ix.ProgramID)
	assert.Equal(t, []byte{2, 0, 0, 0, 2, 1, 0, 0, 0, 0, 0, 0}, ix.Data)
	assert.Equal(t, []AccountMeta{{Pubkey: from, IsSigner: true, IsWritable: true}, {Pubkey: to, IsWritable: true}}, ix.Accounts)
}

func TestSystemAssign_Encoding(t *testing.T) {
	key := solana.PublicKey{1}
	owner := solana.PublicKey{7, 7}
	ix := SystemAssign(key, owner)

	assert.Equal(t, append([]byte{1, 0, 0, 0}, owner[:]...), ix.Data)
	assert.Equal(t, []AccountMeta{{Pubkey: key, IsSigner: true, IsWritable: true}}, ix.Accounts)
}

func TestCreateProgramAddress_Limits(t *testing.T) {
	programID := solana.PublicKey{9}

	addr, bump, err := FindProgramAddress([][]byte{[]byte("vault")}, programID)
	require.NoError(t, err)
	again, err := CreateProgramAddress([][]byte{[]byte("vault"), {bump}}, programID)
	require.NoError(t, err)
	assert.Equal(t, addr, again)

	_, err = CreateProgramAddress([][]byte{make([]byte, MaxSeedLen+1)}, programID)
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)
	_, err = CreateProgramAddress(make([][]byte, MaxSeeds+1), programID)
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)
}
