package blob

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	blobsdk "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"

	"azmlclient/internal/charset"
	"azmlclient/table"
)

// API is the minimal blob transfer surface the store needs. The production
// implementation wraps the Azure SDK; tests substitute an in-memory one.
type API interface {
	Upload(ctx context.Context, container, name string, data []byte, contentType, contentEncoding string) error
	Download(ctx context.Context, container, name string) ([]byte, error)
}

type azureAPI struct {
	client *azblob.Client
}

func newAzureAPI(connectionString string) (API, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, err
	}
	return &azureAPI{client: client}, nil
}

func (a *azureAPI) Upload(ctx context.Context, container, name string, data []byte, contentType, contentEncoding string) error {
	_, err := a.client.UploadBuffer(ctx, container, name, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blobsdk.HTTPHeaders{
			BlobContentType:     &contentType,
			BlobContentEncoding: &contentEncoding,
		},
	})
	return err
}

func (a *azureAPI) Download(ctx context.Context, container, name string) ([]byte, error) {
	resp, err := a.client.DownloadStream(ctx, container, name, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// Store uploads tables to one storage account and downloads tables from
// whatever account a reference points at.
type Store struct {
	api              API
	newAPI           func(connectionString string) (API, error)
	connectionString string
	logger           *slog.Logger
}

// NewStore builds a store over the given storage account connection string.
func NewStore(connectionString string, logger *slog.Logger) (*Store, error) {
	api, err := newAzureAPI(connectionString)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		api:              api,
		newAPI:           newAzureAPI,
		connectionString: connectionString,
		logger:           logger,
	}, nil
}

// NewStoreWithAPI builds a store over a caller-supplied transfer API. Both
// uploads and reference downloads go through the same API.
func NewStoreWithAPI(connectionString string, api API, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		api:              api,
		newAPI:           func(string) (API, error) { return api, nil },
		connectionString: connectionString,
		logger:           logger,
	}
}

// ConnectionString returns the storage account connection string uploads use.
func (s *Store) ConnectionString() string {
	return s.connectionString
}

// UploadOptions control where an uploaded table lands and how it is encoded.
type UploadOptions struct {
	PathPrefix string
	NamePrefix string
	Charset    string
}

// Upload writes the table as a CSV blob and returns the reference a batch
// request can carry for it.
func (s *Store) Upload(ctx context.Context, t table.Table, container, name string, opts UploadOptions) (Reference, error) {
	ref, blobName, err := NewReference(s.connectionString, container, name, opts.PathPrefix, opts.NamePrefix)
	if err != nil {
		return Reference{}, err
	}
	text, err := table.ToCSV(t)
	if err != nil {
		return Reference{}, err
	}
	cs := opts.Charset
	contentEncoding := ""
	data := []byte(text)
	if !charset.IsUTF8(cs) {
		s.logger.Warn("uploading blob with a non-UTF-8 charset, it cannot be read back into a table",
			"blob", blobName, "charset", cs)
		data, err = charset.Encode(text, cs)
		if err != nil {
			return Reference{}, err
		}
		contentEncoding = cs
	}
	if err := s.api.Upload(ctx, container, blobName, data, "text/csv", contentEncoding); err != nil {
		return Reference{}, err
	}
	return ref, nil
}

// Download reads the blob a reference points at back into a table. An empty
// blob yields an empty table.
func (s *Store) Download(ctx context.Context, ref Reference, cs string) (table.Table, error) {
	if ref.ConnectionString == "" {
		return table.Table{}, &InvalidBlobReferenceError{Reason: "missing ConnectionString"}
	}
	if ref.RelativeLocation == "" {
		return table.Table{}, &InvalidBlobReferenceError{Reason: "missing RelativeLocation"}
	}
	if !charset.IsUTF8(cs) {
		return table.Table{}, &UnsupportedEncodingError{Encoding: cs}
	}
	container, name, ok := strings.Cut(ref.RelativeLocation, "/")
	if !ok || container == "" || name == "" {
		return table.Table{}, &InvalidBlobReferenceError{Reason: "relative location has no container segment: " + ref.RelativeLocation}
	}
	api, err := s.newAPI(ref.ConnectionString)
	if err != nil {
		return table.Table{}, err
	}
	data, err := api.Download(ctx, container, name)
	if err != nil {
		return table.Table{}, err
	}
	if len(data) == 0 {
		return table.Table{}, nil
	}
	if !utf8.Valid(data) {
		return table.Table{}, &UnsupportedEncodingError{Encoding: "unknown"}
	}
	return table.FromCSV(string(data))
}
