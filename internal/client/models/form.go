package models

// Attachment is a local file selected for upload.
type Attachment struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
}

// Field is one text part of a multipart form.
type Field struct {
	Name  string
	Value string
}

// Form is a multipart payload: ordered text fields and an optional file
// sent under the "file" part name.
type Form struct {
	Fields []Field
	File   *Attachment
}

// Add appends a text field.
func (f *Form) Add(name, value string) {
	f.Fields = append(f.Fields, Field{Name: name, Value: value})
}

// Get returns the first value stored under name.
func (f *Form) Get(name string) (string, bool) {
	for _, fld := range f.Fields {
		if fld.Name == name {
			return fld.Value, true
		}
	}
	return "", false
}
