package storage

import "context"

// FileStorage keeps physician profile photos. URLs returned by UploadFile are the handles for every other call.
type FileStorage interface {
	UploadFile(ctx context.Context, data []byte, filename string) (string, error)

	DeleteFile(ctx context.Context, fileURL string) error
}
