package service

import (
	"context"
	"io"
)

// PhotoStorage uploads listing photos to the object store and hands back a
// publicly reachable URL for each.
type PhotoStorage interface {
	UploadPhoto(ctx context.Context, file io.Reader, contentType, filename string) (string, error)
	DeletePhoto(ctx context.Context, photoURL string) error
	Close() error
}
