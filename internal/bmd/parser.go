package bmd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"mu-bmd-pose/internal/crypto"
	"mu-bmd-pose/internal/logx"
	"mu-bmd-pose/internal/mathutil"
)

var (
	ErrInvalidHeader = errors.New("bmd: invalid header")
	ErrTruncated     = errors.New("bmd: truncated data")
	ErrMissingKey    = errors.New("bmd: v15 file needs an LEA key")
)

// maxMeshes rejects garbage counts from undecrypted or foreign files.
const maxMeshes = 100

// Encoded sizes of one key: a locked position, and a bone key
// (position + Euler angles).
const (
	lockedKeySize = 12
	boneKeySize   = 24
)

// Options controls decryption.
type Options struct {
	// LEAKey decrypts version 15 files. Nil rejects them with ErrMissingKey.
	LEAKey *[32]byte
}

// Parse reads a BMD file and decodes it.
func Parse(path string, opts Options) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bmd: read %s: %w", path, err)
	}
	m, err := Decode(raw, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logx.Logger().Debug("bmd: decoded", "path", path, "version", m.Version,
		"meshes", len(m.Meshes), "bones", len(m.Bones), "actions", len(m.Actions))
	return m, nil
}

// Decode decodes an in-memory BMD file.
// Supports versions 10 (unencrypted), 12 (XOR) and 15 (LEA-256 ECB).
func Decode(raw []byte, opts Options) (*Model, error) {
	if len(raw) < 4 || string(raw[:3]) != "BMD" {
		return nil, ErrInvalidHeader
	}

	version := raw[3]
	var data []byte

	switch version {
	case 15, 12:
		if len(raw) < 8 {
			return nil, fmt.Errorf("%w: v%d header", ErrTruncated, version)
		}
		size := binary.LittleEndian.Uint32(raw[4:8])
		if 8+uint64(size) > uint64(len(raw)) {
			return nil, fmt.Errorf("%w: v%d payload of %d bytes", ErrTruncated, version, size)
		}
		payload := raw[8 : 8+size]
		if version == 12 {
			data = crypto.DecryptXOR(payload)
			break
		}
		if opts.LEAKey == nil {
			return nil, ErrMissingKey
		}
		var err error
		if data, err = crypto.DecryptLEA(payload, *opts.LEAKey); err != nil {
			return nil, fmt.Errorf("bmd: v15 decrypt: %w", err)
		}
	case 10:
		data = raw[4:]
	default:
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidHeader, version)
	}

	r := &reader{data: data}
	m, err := r.parse()
	if err != nil {
		return nil, err
	}
	m.Version = version
	return m, nil
}

// reader is a little-endian cursor. Reads past the end yield zero values and
// set short.
type reader struct {
	data  []byte
	off   int
	short bool
}

func (r *reader) take(n int) []byte {
	if n < 0 || r.off+n > len(r.data) {
		r.off = len(r.data)
		r.short = true
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) skip(n int) { r.take(n) }

func (r *reader) remaining() int { return len(r.data) - r.off }

func (r *reader) readStr(n int) string {
	s := r.take(n)
	// Find null terminator
	for i, b := range s {
		if b == 0 {
			return string(s[:i])
		}
	}
	return string(s)
}

func (r *reader) readI16() int16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(b))
}

func (r *reader) readU16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) readF32() float32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (r *reader) readVec3() mathutil.Vector3 {
	return mathutil.Vector3{X: r.readF32(), Y: r.readF32(), Z: r.readF32()}
}

func (r *reader) readByte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) parse() (*Model, error) {
	m := &Model{Name: r.readStr(32)}
	meshCount := int(r.readU16())
	boneCount := int(r.readU16())
	actionCount := int(r.readU16())

	if meshCount > maxMeshes {
		return nil, fmt.Errorf("%w: mesh count %d", ErrInvalidHeader, meshCount)
	}

	m.Meshes = make([]Mesh, 0, meshCount)
	for i := 0; i < meshCount; i++ {
		mesh := Mesh{
			Vertices:  int(r.readI16()),
			Normals:   int(r.readI16()),
			TexCoords: int(r.readI16()),
			Triangles: int(r.readI16()),
		}
		_ = r.readI16() // texture index

		// Vertices: 16 bytes each (node:i16, pad:i16, x:f32, y:f32, z:f32)
		r.skip(mesh.Vertices * 16)
		// Normals: 20 bytes each (node:i16, pad:i16, nx, ny, nz:f32, bind:i16, pad:i16)
		r.skip(mesh.Normals * 20)
		// TexCoords: 8 bytes each (u:f32, v:f32)
		r.skip(mesh.TexCoords * 8)
		// Triangles: 64 bytes each
		r.skip(mesh.Triangles * 64)

		mesh.TexPath = strings.ReplaceAll(r.readStr(32), "\\", "/")
		if r.short {
			return nil, fmt.Errorf("%w: mesh %d", ErrTruncated, i)
		}
		m.Meshes = append(m.Meshes, mesh)
	}

	m.Actions = make([]Action, actionCount)
	for a := range m.Actions {
		act := &m.Actions[a]
		act.Keys = int(r.readI16())
		if act.Keys < 0 {
			return nil, fmt.Errorf("%w: action %d has %d keys", ErrInvalidHeader, a, act.Keys)
		}
		act.LockPositions = r.readByte() > 0
		if act.LockPositions {
			if r.remaining() < act.Keys*lockedKeySize {
				return nil, fmt.Errorf("%w: action %d locked positions", ErrTruncated, a)
			}
			act.Positions = make([]mathutil.Vector3, act.Keys)
			for k := range act.Positions {
				act.Positions[k] = r.readVec3()
			}
		}
	}
	if r.short {
		return nil, fmt.Errorf("%w: action table", ErrTruncated)
	}

	m.Bones = make([]Bone, 0, boneCount)
	for b := 0; b < boneCount; b++ {
		if isDummy := r.readByte() > 0; isDummy {
			m.Bones = append(m.Bones, Bone{Parent: -1, IsDummy: true})
			continue
		}

		bone := Bone{
			Name:   r.readStr(32),
			Parent: int(r.readI16()),
		}
		for a, act := range m.Actions {
			if act.Keys == 0 {
				continue
			}
			if r.remaining() < act.Keys*boneKeySize {
				return nil, fmt.Errorf("%w: bone %d action %d", ErrTruncated, b, a)
			}
			if bone.Tracks == nil {
				bone.Tracks = make(map[int][]Key)
			}
			keys := make([]Key, act.Keys)
			// Positions first, then rotations, numKeys × (x, y, z) float32 each.
			for k := range keys {
				keys[k].Position = r.readVec3()
			}
			for k := range keys {
				ang := r.readVec3()
				keys[k].Angles = ang
				keys[k].Rotation = mathutil.EulerToQuaternion(ang.X, ang.Y, ang.Z)
			}
			bone.Tracks[a] = keys
		}
		if r.short {
			return nil, fmt.Errorf("%w: bone %d", ErrTruncated, b)
		}
		m.Bones = append(m.Bones, bone)
	}

	return m, nil
}
