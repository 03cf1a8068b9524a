package file

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// Vector blob layout, all little-endian:
//
//	magic   [4]byte "WRVI"
//	version uint32
//	dim     uint32
//	count   uint64
//	data    count*dim float32
var vectorMagic = [4]byte{'W', 'R', 'V', 'I'}

const (
	vectorVersion   uint32 = 1
	metadataVersion        = 1
)

var errBadMagic = errors.New("not a vector blob")

func encodeVectors(w io.Writer, dim int, vectors [][]float32) error {
	bw := bufio.NewWriter(w)

	header := make([]byte, 20)
	copy(header[0:4], vectorMagic[:])
	binary.LittleEndian.PutUint32(header[4:8], vectorVersion)
	binary.LittleEndian.PutUint32(header[8:12], uint32(dim))
	binary.LittleEndian.PutUint64(header[12:20], uint64(len(vectors)))
	if _, err := bw.Write(header); err != nil {
		return err
	}

	buf := make([]byte, 4)
	for slot, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("slot %d: %w", slot, &domain.ShapeMismatchError{Expected: dim, Got: len(v)})
		}
		for _, f := range v {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(f))
			if _, err := bw.Write(buf); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

func decodeVectors(r io.Reader) (int, [][]float32, error) {
	br := bufio.NewReader(r)

	header := make([]byte, 20)
	if _, err := io.ReadFull(br, header); err != nil {
		return 0, nil, fmt.Errorf("read header: %w", err)
	}
	if [4]byte(header[0:4]) != vectorMagic {
		return 0, nil, errBadMagic
	}
	if v := binary.LittleEndian.Uint32(header[4:8]); v != vectorVersion {
		return 0, nil, fmt.Errorf("unsupported vector blob version %d", v)
	}
	dim := int(binary.LittleEndian.Uint32(header[8:12]))
	count := binary.LittleEndian.Uint64(header[12:20])

	vectors := make([][]float32, 0, min(count, 1<<16))
	raw := make([]byte, 4*dim)
	for i := uint64(0); i < count; i++ {
		if _, err := io.ReadFull(br, raw); err != nil {
			return 0, nil, fmt.Errorf("read vector %d: %w", i, err)
		}
		v := make([]float32, dim)
		for j := range v {
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(raw[j*4:]))
		}
		vectors = append(vectors, v)
	}

	return dim, vectors, nil
}

// chunkRecord is the JSON form of a chunk.
type chunkRecord struct {
	DocID     string    `json:"doc_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Position  int       `json:"position"`
	Timestamp time.Time `json:"timestamp"`
}

// metadataFile keeps the slot order explicitly; JSON object key order is not preserved.
type metadataFile struct {
	Version  int                    `json:"version"`
	ChunkIDs []string               `json:"chunk_ids"`
	Chunks   map[string]chunkRecord `json:"chunks"`
}

func encodeMetadata(w io.Writer, chunks []domain.Chunk) error {
	m := metadataFile{
		Version:  metadataVersion,
		ChunkIDs: make([]string, len(chunks)),
		Chunks:   make(map[string]chunkRecord, len(chunks)),
	}
	for i, c := range chunks {
		m.ChunkIDs[i] = c.ID
		m.Chunks[c.ID] = chunkRecord{
			DocID:     c.DocumentID,
			URL:       c.URL,
			Title:     c.Title,
			Content:   c.Content,
			Position:  c.Position,
			Timestamp: c.Timestamp,
		}
	}
	return json.NewEncoder(w).Encode(&m)
}

func decodeMetadata(r io.Reader) ([]domain.Chunk, error) {
	var m metadataFile
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if m.Version != metadataVersion {
		return nil, fmt.Errorf("unsupported metadata version %d", m.Version)
	}
	if len(m.ChunkIDs) != len(m.Chunks) {
		return nil, &domain.IndexCorruptionError{Vectors: len(m.ChunkIDs), Records: len(m.Chunks)}
	}

	chunks := make([]domain.Chunk, len(m.ChunkIDs))
	for i, id := range m.ChunkIDs {
		rec, ok := m.Chunks[id]
		if !ok {
			return nil, fmt.Errorf("chunk %s listed at slot %d has no record: %w", id, i, domain.ErrIndexCorrupted)
		}
		chunks[i] = domain.Chunk{
			ID:         id,
			DocumentID: rec.DocID,
			URL:        rec.URL,
			Title:      rec.Title,
			Content:    rec.Content,
			Position:   rec.Position,
			Timestamp:  rec.Timestamp,
		}
	}
	return chunks, nil
}
