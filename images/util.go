package images

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"

	"gocv.io/x/gocv"
)

// ComputeMatChecksum generates a deterministic checksum for a Mat, used to
// verify that identical frames produce identical intermediates.
//
// The geometry and type are hashed along with the pixels so that two Mats
// holding the same bytes in different shapes do not collide.
//
// Arguments:
//   - mat: The Mat to compute the checksum for.
//
// Returns:
//   - A hex-encoded MD5 checksum string, or "empty" for an empty Mat.
//
// Example:
//
//	sum := ComputeMatChecksum(edges)
//	fmt.Printf("edge map checksum: %s\n", sum)
func ComputeMatChecksum(mat gocv.Mat) string {
	if mat.Empty() {
		return "empty"
	}

	var header [12]byte
	binary.LittleEndian.PutUint32(header[0:], uint32(mat.Rows()))
	binary.LittleEndian.PutUint32(header[4:], uint32(mat.Cols()))
	binary.LittleEndian.PutUint32(header[8:], uint32(mat.Type()))

	hash := md5.New()
	hash.Write(header[:])
	hash.Write(mat.ToBytes())
	return fmt.Sprintf("%x", hash.Sum(nil))
}
