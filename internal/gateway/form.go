package gateway

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"pitchclerk/internal/services"
)

// Field is one text part of a multipart form.
type Field struct {
	Name  string
	Value string
}

// File is one binary part of a multipart form. Open is called once while the
// request body is being streamed.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Form is an ordered multipart payload. Fields are written before files, each
// in insertion order.
type Form struct {
	Fields []Field
	Files  []File
}

// Add appends a text field.
func (f *Form) Add(name, value string) {
	f.Fields = append(f.Fields, Field{Name: name, Value: value})
}

// AddFile appends a file part read from path on disk.
func (f *Form) AddFile(field, path string) {
	f.Files = append(f.Files, File{
		Field:    field,
		Filename: filepath.Base(path),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	})
}

// Value returns the first value recorded for a text field.
func (f *Form) Value(name string) (string, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// HasFile reports whether a file part exists for field.
func (f *Form) HasFile(field string) bool {
	for _, file := range f.Files {
		if file.Field == field {
			return true
		}
	}
	return false
}

func (f *Form) writeTo(w *multipart.Writer) error {
	for _, field := range f.Fields {
		if err := w.WriteField(field.Name, field.Value); err != nil {
			return fmt.Errorf("write field %s: %w", field.Name, err)
		}
	}
	for _, file := range f.Files {
		if err := writeFilePart(w, file); err != nil {
			return err
		}
	}
	return w.Close()
}

func writeFilePart(w *multipart.Writer, file File) error {
	if file.Open == nil {
		return fmt.Errorf("file %s: no content", file.Field)
	}
	contentType := strings.TrimSpace(file.ContentType)
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(file.Filename)))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create part %s: %w", file.Field, err)
	}

	src, err := file.Open()
	if err != nil {
		return unreadable(file, err)
	}
	defer src.Close()
	tracked := &sourceReader{r: src}
	if _, err := io.Copy(part, tracked); err != nil {
		if tracked.err != nil {
			return unreadable(file, tracked.err)
		}
		return fmt.Errorf("copy %s: %w", file.Field, err)
	}
	return nil
}

// unreadable marks a local file failure so it is not mistaken for a network
// fault once it surfaces through the request body.
func unreadable(file File, err error) error {
	name := file.Filename
	if name == "" {
		name = file.Field
	}
	return services.Wrap(services.ErrValidation, "attach "+file.Field, fmt.Sprintf("Cannot read %s.", name), err)
}

// sourceReader remembers the first read failure of a file part, which lets
// writeFilePart tell it apart from a closed request pipe.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF && s.err == nil {
		s.err = err
	}
	return n, err
}
