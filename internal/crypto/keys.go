package crypto

// XORKey is the 16-byte key for BMD v12 chained XOR.
var XORKey = [16]byte{
	0xD1, 0x73, 0x52, 0xF6, 0xD2, 0x9A, 0xCB, 0x27,
	0x3E, 0xAF, 0x59, 0x31, 0x37, 0xB3, 0xE7, 0xA2,
}

// xorChainSeed and xorChainStep drive the v12 chain value.
const (
	xorChainSeed = 0x5E
	xorChainStep = 0x3D
)

// LEAKeyDelta holds the LEA key-schedule constants δ0..δ7.
var LEAKeyDelta = [8]uint32{
	0xc3efe9db, 0x44626b02, 0x79e27c8a, 0x78df30ec,
	0x715ea49e, 0xc785da0a, 0xe04ef22a, 0xe5c40957,
}
