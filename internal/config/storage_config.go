package config

import (
	"path/filepath"
	"strings"
)

// StorageBackend selects where the session is persisted.
type StorageBackend string

const (
	StorageFile  StorageBackend = "file"
	StorageBolt  StorageBackend = "bolt"
	StorageRedis StorageBackend = "redis"
)

const (
	storageBackendVar = "PORTAL_STORAGE"
	sessionFileVar    = "PORTAL_SESSION_FILE"
	boltPathVar       = "PORTAL_BOLT_PATH"
	redisAddrVar      = "PORTAL_REDIS_ADDR"
	redisPrefixVar    = "PORTAL_REDIS_PREFIX"
)

type StorageConfig interface {
	GetStorageBackend() StorageBackend
	GetSessionFile() string
	GetBoltPath() string
	GetRedisAddr() string
	GetRedisPrefix() string
}

type Storage struct {
	file *FileConfig
}

var _ StorageConfig = Storage{}

func (s Storage) GetStorageBackend() StorageBackend {
	raw := GetEnv(storageBackendVar, fileValue(s.file, func(f *FileConfig) string { return f.Storage.Backend }, string(StorageFile)))
	switch backend := StorageBackend(strings.ToLower(raw)); backend {
	case StorageBolt, StorageRedis:
		return backend
	default:
		return StorageFile
	}
}

func (s Storage) GetSessionFile() string {
	return GetEnv(sessionFileVar, fileValue(s.file, func(f *FileConfig) string { return f.Storage.SessionFile },
		filepath.Join(EnvVars{}.GetConfigDir(), "session.json")))
}

func (s Storage) GetBoltPath() string {
	return GetEnv(boltPathVar, fileValue(s.file, func(f *FileConfig) string { return f.Storage.BoltPath },
		filepath.Join(EnvVars{}.GetConfigDir(), "session.db")))
}

func (s Storage) GetRedisAddr() string {
	return GetEnv(redisAddrVar, fileValue(s.file, func(f *FileConfig) string { return f.Storage.RedisAddr }, "localhost:6379"))
}

func (s Storage) GetRedisPrefix() string {
	return GetEnv(redisPrefixVar, fileValue(s.file, func(f *FileConfig) string { return f.Storage.RedisPrefix }, "portal"))
}
