// SPDX-License-Identifier: MIT

package project

import (
	"context"
	"fmt"
	"io"

	"github.com/ManuGH/uihelper/internal/log"
	"github.com/ManuGH/uihelper/internal/uixml"
	"github.com/google/renameio/v2"
)

// writeDescriptor writes the descriptor. With atomic set, readers such as a
// running editor never observe a half-written file.
func writeDescriptor(ctx context.Context, path string, cfg *uixml.ElementConfig, atomic bool) error {
	if !atomic {
		return uixml.WriteFile(path, cfg)
	}
	return writeAtomicFunc(ctx, path, func(w io.Writer) error {
		return uixml.Write(w, cfg)
	})
}

func writeAtomic(path string, data []byte) error {
	return writeAtomicFunc(context.Background(), path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func writeAtomicFunc(ctx context.Context, path string, write func(io.Writer) error) error {
	logger := log.FromContext(ctx)

	// renameio handles: temp file creation, fsync, atomic rename, cleanup on error
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Str(log.FieldPath, path).Msg("cleanup pending file")
		}
	}()

	if err := write(pendingFile); err != nil {
		return err
	}

	// CloseAtomicallyReplace: fsync + rename (durable + atomic)
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}
