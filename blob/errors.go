package blob

import "fmt"

// InvalidNamePrefixError reports a blob name prefix containing a path
// separator, which would silently change the blob's virtual directory.
type InvalidNamePrefixError struct {
	NamePrefix string
}

func (e *InvalidNamePrefixError) Error() string {
	return fmt.Sprintf("blob name prefix %q must not contain '/'", e.NamePrefix)
}

// InvalidBlobReferenceError reports a reference missing one of its required
// fields or whose relative location has no container segment.
type InvalidBlobReferenceError struct {
	Reason string
}

func (e *InvalidBlobReferenceError) Error() string {
	return "invalid blob reference: " + e.Reason
}

// UnsupportedEncodingError reports a blob that is not UTF-8 encoded. Only
// UTF-8 blobs can be read back into tables.
type UnsupportedEncodingError struct {
	Encoding string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("blobs can only be read back when UTF-8 encoded, found %q", e.Encoding)
}
