package program

import (
	"encoding/binary"
	"errors"

	"github.com/gagliardetto/solana-go"
)

// MaxPermittedDataIncrease is the headroom after each account's data in the
// input buffer; an account may grow by at most this much per instruction.
const MaxPermittedDataIncrease = 10 * 1024

const nonDupMarker = 0xff

// offsets within a non-duplicate account record
const (
	offIsSigner        = 1
	offIsWritable      = 2
	offExecutable      = 3
	offOriginalDataLen = 4
	offKey             = 8
	offOwner           = 40
	offLamports        = 72
	offDataLen         = 80
	offData            = 88
)

var ErrDeserialization = errors.New("DeserializationError")

// AccountInfo is a view of one account record inside the input buffer.
// Lamports, owner and data are read from and written to the buffer directly.
type AccountInfo struct {
	Key        solana.PublicKey
	IsSigner   bool
	IsWritable bool
	Executable bool
	RentEpoch  uint64

	buf    []byte
	offset int
}

func (a *AccountInfo) Lamports() uint64 {
	return binary.LittleEndian.Uint64(a.buf[a.offset+offLamports:])
}

func (a *AccountInfo) SetLamports(lamports uint64) {
	binary.LittleEndian.PutUint64(a.buf[a.offset+offLamports:], lamports)
}

func (a *AccountInfo) Owner() solana.PublicKey {
	return solana.PublicKeyFromBytes(a.buf[a.offset+offOwner : a.offset+offOwner+solana.PublicKeyLength])
}

// Assign changes the account's owner.
func (a *AccountInfo) Assign(owner solana.PublicKey) {
	copy(a.buf[a.offset+offOwner:], owner[:])
}

func (a *AccountInfo) DataLen() int {
	return int(binary.LittleEndian.Uint64(a.buf[a.offset+offDataLen:]))
}

func (a *AccountInfo) OriginalDataLen() int {
	return int(binary.LittleEndian.Uint32(a.buf[a.offset+offOriginalDataLen:]))
}

// Data returns the account data. Writes land in the input buffer; the slice
// capacity ends at the account's realloc limit.
func (a *AccountInfo) Data() []byte {
	start := a.offset + offData
	limit := start + a.OriginalDataLen() + MaxPermittedDataIncrease
	return a.buf[start : start+a.DataLen() : limit]
}

// Realloc changes the data length within the realloc headroom. Growth is
// zeroed when zeroInit is set.
func (a *AccountInfo) Realloc(newLen int, zeroInit bool) error {
	if newLen < 0 || newLen > a.OriginalDataLen()+MaxPermittedDataIncrease {
		return ErrInvalidRealloc
	}

	oldLen := a.DataLen()
	binary.LittleEndian.PutUint64(a.buf[a.offset+offDataLen:], uint64(newLen))

	if zeroInit && newLen > oldLen {
		start := a.offset + offData
		clear(a.buf[start+oldLen : start+newLen])
	}
	return nil
}

// Deserialize builds account views over an input buffer. Duplicate records
// resolve to the same *AccountInfo as their first occurrence.
func Deserialize(input []byte) (solana.PublicKey, []*AccountInfo, []byte, error) {
	var programID solana.PublicKey

	off := 0
	readU64 := func() (uint64, bool) {
		if off+8 > len(input) {
			return 0, false
		}
		v := binary.LittleEndian.Uint64(input[off:])
		off += 8
		return v, true
	}

	numAccounts, ok := readU64()
	if !ok || numAccounts > uint64(len(input)) {
		return programID, nil, nil, ErrDeserialization
	}

	accts := make([]*AccountInfo, 0, numAccounts)
	for i := uint64(0); i < numAccounts; i++ {
		if off+8 > len(input) {
			return programID, nil, nil, ErrDeserialization
		}

		marker := input[off]
		if marker != nonDupMarker {
			if uint64(marker) >= i {
				return programID, nil, nil, ErrDeserialization
			}
			accts = append(accts, accts[marker])
			off += 8
			continue
		}

		if off+offData > len(input) {
			return programID, nil, nil, ErrDeserialization
		}
		info := &AccountInfo{
			Key:        solana.PublicKeyFromBytes(input[off+offKey : off+offKey+solana.PublicKeyLength]),
			IsSigner:   input[off+offIsSigner] != 0,
			IsWritable: input[off+offIsWritable] != 0,
			Executable: input[off+offExecutable] != 0,
			buf:        input,
			offset:     off,
		}

		dataLen := binary.LittleEndian.Uint64(input[off+offDataLen:])
		binary.LittleEndian.PutUint32(input[off+offOriginalDataLen:], uint32(dataLen))

		off += offData
		if dataLen > uint64(len(input)-off) {
			return programID, nil, nil, ErrDeserialization
		}
		off += int(dataLen) + MaxPermittedDataIncrease
		off += (-off) & 7

		rentEpoch, ok := readU64()
		if !ok {
			return programID, nil, nil, ErrDeserialization
		}
		info.RentEpoch = rentEpoch
		accts = append(accts, info)
	}

	dataLen, ok := readU64()
	if !ok || dataLen > uint64(len(input)-off) {
		return programID, nil, nil, ErrDeserialization
	}
	data := input[off : off+int(dataLen)]
	off += int(dataLen)

	if off+solana.PublicKeyLength > len(input) {
		return programID, nil, nil, ErrDeserialization
	}
	copy(programID[:], input[off:off+solana.PublicKeyLength])

	return programID, accts, data, nil
}
