package objectstore

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
)

// File is an upload waiting to be stored.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader is implemented by *Store.
type Uploader interface {
	Upload(ctx context.Context, bucket, filename, contentType string, body io.Reader, size int64) (string, error)
}

// Put uploads f to bucket through u.
func Put(ctx context.Context, u Uploader, bucket string, f *File) (string, error) {
	return u.Upload(ctx, bucket, f.Name, f.ContentType, f.Body, f.Size)
}

// FromMultipart opens a form file. The caller closes the returned closer.
func FromMultipart(fh *multipart.FileHeader) (*File, io.Closer, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	return &File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        src,
	}, src, nil
}
