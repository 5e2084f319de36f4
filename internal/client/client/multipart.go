package client

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/coursenotes/internal/client/models"
)

const filePart = "file"

// formBody streams form as multipart/form-data through a pipe, so that large
// attachments are never buffered in memory.
func formBody(form *models.Form) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeForm(mw, form)
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeForm(mw *multipart.Writer, form *models.Form) error {
	for _, f := range form.Fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}

	if form.File == nil {
		return nil
	}

	src, err := os.Open(form.File.Path)
	if err != nil {
		return fmt.Errorf("open attachment: %w", err)
	}
	defer src.Close()

	name := form.File.Name
	if name == "" {
		name = filepath.Base(form.File.Path)
	}
	ct := form.File.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, filePart, quoteEscaper.Replace(name)))
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy attachment: %w", err)
	}
	return nil
}
