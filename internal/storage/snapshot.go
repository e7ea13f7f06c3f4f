package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/jeremyjsx/quill/internal/posts"
	"github.com/klauspost/compress/zstd"
)

const (
	SnapshotPrefix  = "snapshots/"
	ContentTypeZstd = "application/zstd"
)

var _ posts.Archiver = (*SnapshotArchiver)(nil)

// SnapshotArchiver writes each published post as zstd-compressed JSON.
// Later publishes of the same post overwrite its snapshot.
type SnapshotArchiver struct {
	store   Storage
	encoder *zstd.Encoder
}

func NewSnapshotArchiver(store Storage) (*SnapshotArchiver, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	return &SnapshotArchiver{store: store, encoder: enc}, nil
}

func SnapshotKey(postID string) string {
	return SnapshotPrefix + postID + ".json.zst"
}

func (a *SnapshotArchiver) Archive(ctx context.Context, p *posts.Post) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	compressed := a.encoder.EncodeAll(body, make([]byte, 0, len(body)))
	return a.store.Upload(ctx, SnapshotKey(p.ID), bytes.NewReader(compressed), ContentTypeZstd)
}

// DecodeSnapshot reverses Archive.
func DecodeSnapshot(data []byte) (*posts.Post, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	var p posts.Post
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &p, nil
}
