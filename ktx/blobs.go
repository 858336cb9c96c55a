package ktx

import (
	"fmt"
	"iter"
	"math"
	"math/bits"
)

// BlobIndex addresses a single blob in the hierarchy.
type BlobIndex struct {
	MipLevel   uint32
	ArrayIndex uint32
	CubeFace   uint32
}

// blobTable stores one slot per (mip, layer, face). Mip level is the slowest-varying axis
// and face the fastest, which is also the order images appear in a KTX file.
// A nil slot is empty.
type blobTable struct {
	numMipLevels uint32
	arrayLength  uint32
	numCubeFaces uint32
	blobs        [][]byte
}

// blobCount reports numMipLevels*arrayLength*numCubeFaces, or false if it does not fit an int.
func blobCount(numMipLevels, arrayLength, numCubeFaces uint32) (int, bool) {
	hi, lo := bits.Mul64(uint64(numMipLevels)*uint64(arrayLength), uint64(numCubeFaces))
	if hi != 0 || lo > math.MaxInt {
		return 0, false
	}
	return int(lo), true
}

func newBlobTable(numMipLevels, arrayLength, numCubeFaces uint32) (blobTable, error) {
	if numMipLevels == 0 || arrayLength == 0 {
		return blobTable{}, fmt.Errorf("%w: %d mip levels, %d array elements",
			ErrInvalidShape, numMipLevels, arrayLength)
	}
	count, ok := blobCount(numMipLevels, arrayLength, numCubeFaces)
	if !ok {
		return blobTable{}, fmt.Errorf("%w: blob count overflow", ErrInvalidShape)
	}
	return blobTable{
		numMipLevels: numMipLevels,
		arrayLength:  arrayLength,
		numCubeFaces: numCubeFaces,
		blobs:        make([][]byte, count),
	}, nil
}

func (t *blobTable) slot(index BlobIndex) (int, error) {
	if index.MipLevel >= t.numMipLevels ||
		index.ArrayIndex >= t.arrayLength ||
		index.CubeFace >= t.numCubeFaces {
		return 0, fmt.Errorf("%w: %+v", ErrOutOfRange, index)
	}
	faces := int(t.numCubeFaces)
	return int(index.MipLevel)*int(t.arrayLength)*faces + int(index.ArrayIndex)*faces + int(index.CubeFace), nil
}

func (t *blobTable) allocate(index BlobIndex, size uint32) error {
	i, err := t.slot(index)
	if err != nil {
		return err
	}
	t.blobs[i] = make([]byte, size)
	return nil
}

// set copies data into the slot. A slot of matching length is reused in place,
// so concurrent sets on distinct pre-allocated slots never touch the table itself.
func (t *blobTable) set(index BlobIndex, data []byte) error {
	i, err := t.slot(index)
	if err != nil {
		return err
	}
	if uint64(len(data)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", ErrBlobTooLarge, len(data))
	}
	blob := t.blobs[i]
	if blob == nil || len(blob) != len(data) {
		blob = make([]byte, len(data))
		t.blobs[i] = blob
	}
	copy(blob, data)
	return nil
}

func (t *blobTable) get(index BlobIndex) ([]byte, error) {
	i, err := t.slot(index)
	if err != nil {
		return nil, err
	}
	blob := t.blobs[i]
	if blob == nil {
		return nil, fmt.Errorf("%w: %+v", ErrEmptyBlob, index)
	}
	return blob[:len(blob):len(blob)], nil
}

// indices yields every blob index in slot order.
func (t *blobTable) indices() iter.Seq2[int, BlobIndex] {
	return func(yield func(int, BlobIndex) bool) {
		i := 0
		for mip := range t.numMipLevels {
			for layer := range t.arrayLength {
				for face := range t.numCubeFaces {
					if !yield(i, BlobIndex{MipLevel: mip, ArrayIndex: layer, CubeFace: face}) {
						return
					}
					i++
				}
			}
		}
	}
}

func (t *blobTable) clone() blobTable {
	result := *t
	result.blobs = make([][]byte, len(t.blobs))
	for i, blob := range t.blobs {
		if blob != nil {
			result.blobs[i] = append(make([]byte, 0, len(blob)), blob...)
		}
	}
	return result
}
