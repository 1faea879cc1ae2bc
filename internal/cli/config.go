package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/coinshelf/internal/paths"
	"github.com/mesh-intelligence/coinshelf/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envFileName    = ".env"
	envPrefix      = "COINSHELF"
)

// Config keys.
const (
	cfgKeyRecordStore    = "record_store"
	cfgKeyBlobStore      = "blob_store"
	cfgKeyDataDir        = "data_dir"
	cfgKeyTable          = "table"
	cfgKeyMongoURI       = "mongodb.uri"
	cfgKeyMongoDatabase  = "mongodb.database"
	cfgKeyGCSBucket      = "gcs.bucket"
	cfgKeyGCSProject     = "gcs.project"
	cfgKeyGCSCredentials = "gcs.credentials_file"
	cfgKeyVendorURL      = "vendor_url"
	cfgKeyLogLevel       = "log_level"
)

// defaultConfig is the configuration used for keys missing from config.yaml
// and the environment, and the content written to config.yaml on first run.
func defaultConfig() types.Config {
	return types.Config{
		RecordStore: types.RecordStoreSQLite,
		BlobStore:   types.BlobStoreFilesystem,
		Table:       types.DefaultTable,
		MongoDB: types.MongoConfig{
			URI:      types.DefaultMongoURI,
			Database: types.DefaultMongoDB,
		},
		GCS: types.GCSConfig{
			Bucket: types.DefaultBucket,
		},
		VendorURL: types.DefaultVendorURL,
		LogLevel:  types.DefaultLogLevel,
	}
}

// loadConfig reads config.yaml from configDir with Viper, layering
// COINSHELF_* environment variables (optionally from a .env file in the
// working directory or configDir) over it. The config directory and a
// default config.yaml are created on first run. dataDirFlag, when set,
// overrides data_dir.
func loadConfig(configDir, dataDirFlag string) (types.Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}
	if err := loadEnvFiles(configDir); err != nil {
		return types.Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}

	dataDir, err := paths.ResolveDataDir(dataDirFlag, cfg.DataDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := defaultConfig()
	v.SetDefault(cfgKeyRecordStore, d.RecordStore)
	v.SetDefault(cfgKeyBlobStore, d.BlobStore)
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyTable, d.Table)
	v.SetDefault(cfgKeyMongoURI, d.MongoDB.URI)
	v.SetDefault(cfgKeyMongoDatabase, d.MongoDB.Database)
	v.SetDefault(cfgKeyGCSBucket, d.GCS.Bucket)
	v.SetDefault(cfgKeyGCSProject, "")
	v.SetDefault(cfgKeyGCSCredentials, "")
	v.SetDefault(cfgKeyVendorURL, d.VendorURL)
	v.SetDefault(cfgKeyLogLevel, d.LogLevel)
}

// loadEnvFiles loads .env from the working directory and then from
// configDir. Variables already set in the environment are never replaced.
func loadEnvFiles(configDir string) error {
	for _, path := range []string{envFileName, filepath.Join(configDir, envFileName)} {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed loading env file %s: %w", path, err)
		}
	}
	return nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return writeConfigFile(path, defaultConfig())
}

// writeConfigFile marshals cfg to path as YAML.
func writeConfigFile(path string, cfg types.Config) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
