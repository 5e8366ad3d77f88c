package transform

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/srtransform/internal/core/systems/physics"
	"github.com/zeusync/srtransform/pkg/generic"
)

var digests = generic.NewPool(xxhash.New, (*xxhash.Digest).Reset)

// Fingerprint hashes rest-frame geometry so a pass can be matched to the
// vertices it was computed from.
func Fingerprint(vertices []physics.Vector3) uint64 {
	return generic.With(digests, func(d *xxhash.Digest) uint64 {
		var buf [24]byte
		for _, v := range vertices {
			binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(v.X))
			binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(v.Y))
			binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(v.Z))
			_, _ = d.Write(buf[:])
		}
		return d.Sum64()
	})
}
