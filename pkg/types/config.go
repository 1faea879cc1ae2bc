package types

import (
	"errors"
	"fmt"
	"regexp"
)

// Config holds backend selection and parameters for opening the stores.
type Config struct {
	RecordStore string      `json:"record_store" yaml:"record_store" mapstructure:"record_store"`
	BlobStore   string      `json:"blob_store" yaml:"blob_store" mapstructure:"blob_store"`
	DataDir     string      `json:"data_dir" yaml:"data_dir,omitempty" mapstructure:"data_dir"`
	Table       string      `json:"table" yaml:"table" mapstructure:"table"`
	MongoDB     MongoConfig `json:"mongodb" yaml:"mongodb" mapstructure:"mongodb"`
	GCS         GCSConfig   `json:"gcs" yaml:"gcs" mapstructure:"gcs"`
	VendorURL   string      `json:"vendor_url" yaml:"vendor_url" mapstructure:"vendor_url"`
	LogLevel    string      `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// MongoConfig holds settings for the MongoDB record store.
type MongoConfig struct {
	URI      string `json:"uri" yaml:"uri" mapstructure:"uri"`
	Database string `json:"database" yaml:"database" mapstructure:"database"`
}

// GCSConfig holds settings for the Google Cloud Storage blob store.
type GCSConfig struct {
	Bucket          string `json:"bucket" yaml:"bucket" mapstructure:"bucket"`
	Project         string `json:"project" yaml:"project,omitempty" mapstructure:"project"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file,omitempty" mapstructure:"credentials_file"`
}

// Supported record store backends.
const (
	RecordStoreSQLite  = "sqlite"
	RecordStoreMongoDB = "mongodb"
	RecordStoreMemory  = "memory"
)

// Supported blob store backends.
const (
	BlobStoreFilesystem = "filesystem"
	BlobStoreGCS        = "gcs"
	BlobStoreNone       = "none"
)

// Defaults applied by the CLI when a key is not configured.
const (
	DefaultTable     = "coins"
	DefaultMongoURI  = "mongodb://localhost:27017"
	DefaultMongoDB   = "coinshelf"
	DefaultBucket    = "coinshelf-coinpics"
	DefaultVendorURL = "https://www.apmex.com"
	DefaultLogLevel  = "warn"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrTableName      = errors.New("invalid table name")
	ErrMongoURIEmpty  = errors.New("mongodb uri must not be empty")
	ErrBucketEmpty    = errors.New("gcs bucket must not be empty")
)

var (
	knownRecordStores = map[string]bool{
		RecordStoreSQLite:  true,
		RecordStoreMongoDB: true,
		RecordStoreMemory:  true,
	}
	knownBlobStores = map[string]bool{
		BlobStoreFilesystem: true,
		BlobStoreGCS:        true,
		BlobStoreNone:       true,
	}
	tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure, wrapped with the offending value.
func (c Config) Validate() error {
	if c.RecordStore == "" || c.BlobStore == "" {
		return ErrBackendEmpty
	}
	if !knownRecordStores[c.RecordStore] {
		return fmt.Errorf("%w: record store %q", ErrBackendUnknown, c.RecordStore)
	}
	if !knownBlobStores[c.BlobStore] {
		return fmt.Errorf("%w: blob store %q", ErrBackendUnknown, c.BlobStore)
	}
	if !ValidTableName(c.Table) {
		return fmt.Errorf("%w: %q", ErrTableName, c.Table)
	}
	if c.RecordStore == RecordStoreMongoDB && c.MongoDB.URI == "" {
		return ErrMongoURIEmpty
	}
	if c.BlobStore == BlobStoreGCS && c.GCS.Bucket == "" {
		return ErrBucketEmpty
	}
	return nil
}

// ValidTableName reports whether name can be used as a table or collection
// name: a letter or underscore followed by letters, digits or underscores.
func ValidTableName(name string) bool {
	return tableNamePattern.MatchString(name)
}
