package controllers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/meinhoongagan/senior-care-app/storage"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// formFile opens the multipart file named field. A missing file is not an
// error; it yields a nil upload.
func formFile(c *fiber.Ctx, field string) (*storage.Upload, io.Closer, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
		return nil, nopCloser{}, nil
	}
	if err != nil {
		return nil, nopCloser{}, err
	}
	up, closer, err := storage.FromFileHeader(fh)
	if err != nil {
		return nil, nopCloser{}, err
	}
	return &up, closer, nil
}
